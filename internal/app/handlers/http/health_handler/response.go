package health_handler

// HealthResponse структура для ответа
type HealthResponse struct {
	Status         string `json:"status"`
	Database       string `json:"database"`
	ActiveSessions int    `json:"active_sessions"`
}
