package health_handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const pingTimeout = 2 * time.Second

// Pinger проверка соединения с базой
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sessions число незавершенных сессий
type Sessions interface {
	Active() int
}

// HealthHandler структура для обработчика GET /healthz
type HealthHandler struct {
	db       Pinger
	sessions Sessions
	log      logrus.FieldLogger
}

// NewHealthHandler создает новый экземпляр обработчика
func NewHealthHandler(db Pinger, sessions Sessions, log logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{db: db, sessions: sessions, log: log}
}

// ServeHTTP отвечает 200, если база доступна, иначе 503
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	response := HealthResponse{
		Status:         "ok",
		Database:       "ok",
		ActiveSessions: h.sessions.Active(),
	}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("health check: database is unavailable")
		response.Status = "degraded"
		response.Database = "unavailable"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.WithError(err).Error("failed to encode health response")
	}
}
