package model

import "time"

// Company группа участников, объединенных ссылкой-приглашением
type Company struct {
	ID        int64     `json:"id"`
	CreatedBy int64     `json:"created_by"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanySummary краткая сводка по результатам группы
type CompanySummary struct {
	CompanyID   int64   `json:"company_id"`
	Respondents int     `json:"respondents"`
	Average     float64 `json:"average"`
}
