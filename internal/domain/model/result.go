package model

import "time"

// Result сохраненный результат завершенного теста
type Result struct {
	ID              int64     `json:"id"`
	Username        string    `json:"telegram_username"`
	CompanyID       *int64    `json:"company_id,omitempty"`
	Role            string    `json:"role"`
	Industry        *string   `json:"industry,omitempty"`
	TeamSize        *int      `json:"team_size,omitempty"`
	PersonCost      *float64  `json:"person_cost,omitempty"`
	Average         float64   `json:"average_ti"`
	EstimatedLosses *float64  `json:"estimated_losses,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Stats агрегированная статистика для администраторов
type Stats struct {
	TotalResults     int
	UniqueUsers      int
	Groups           int
	AvgGroupSize     float64
	Managers         int
	Employees        int
	OpenAnswerRate   float64
	AvgLosses        *float64
	AvgAverageWithPC *float64
}

// IndustryCount количество прохождений по индустрии
type IndustryCount struct {
	Industry string
	Count    int
}
