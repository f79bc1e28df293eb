package my_results_handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"github.com/IT-Nick/assessment-bot/internal/domain/results/service"
	"github.com/IT-Nick/assessment-bot/internal/domain/scoring"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Reports выгрузки по группам пользователя
type Reports interface {
	CompanyReports(ctx context.Context, creatorID int64) ([]service.CompanyReport, error)
	HasCompanies(ctx context.Context, creatorID int64) (bool, error)
}

// MyResultsHandler обработчик /myresults: CSV и сводка по каждой группе пользователя
type MyResultsHandler struct {
	reports Reports
	texts   reply.Texts
	log     logrus.FieldLogger
}

func NewMyResultsHandler(reports Reports, texts reply.Texts, log logrus.FieldLogger) *MyResultsHandler {
	return &MyResultsHandler{reports: reports, texts: texts, log: log}
}

func (h *MyResultsHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	creatorID := c.Sender().ID

	reports, err := h.reports.CompanyReports(ctx, creatorID)
	if err != nil {
		return reply.Error(c, h.texts, h.log, err)
	}
	if len(reports) == 0 {
		has, err := h.reports.HasCompanies(ctx, creatorID)
		if err != nil {
			return reply.Error(c, h.texts, h.log, err)
		}
		if !has {
			return c.Send(h.texts.Get("company_results_nocompany"))
		}
		return c.Send(h.texts.Get("company_results_none"))
	}

	for _, r := range reports {
		doc := &telebot.Document{
			File:     telebot.FromReader(strings.NewReader(r.CSV)),
			FileName: fmt.Sprintf("company_%d_results.csv", r.Summary.CompanyID),
			MIME:     "text/csv",
			Caption:  h.texts.Get("company_results"),
		}
		if err := c.Send(doc); err != nil {
			return fmt.Errorf("failed to send company %d export: %w", r.Summary.CompanyID, err)
		}

		summary := h.texts.Format("company_results_full",
			r.Summary.CompanyID, r.Summary.Respondents, scoring.Round(r.Summary.Average, 1))
		if err := c.Send(summary); err != nil {
			return fmt.Errorf("failed to send company %d summary: %w", r.Summary.CompanyID, err)
		}
	}
	return nil
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *MyResultsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
