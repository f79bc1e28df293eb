package stats_handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Statistics агрегаты по всем результатам
type Statistics interface {
	Stats(ctx context.Context, managerRole string) (model.Stats, []model.IndustryCount, error)
}

// StatsHandler обработчик /stats для администраторов
type StatsHandler struct {
	stats       Statistics
	managerRole string
	texts       reply.Texts
	log         logrus.FieldLogger
}

func NewStatsHandler(stats Statistics, managerRole string, texts reply.Texts, log logrus.FieldLogger) *StatsHandler {
	return &StatsHandler{stats: stats, managerRole: managerRole, texts: texts, log: log}
}

func (h *StatsHandler) Handle(c telebot.Context) error {
	st, industries, err := h.stats.Stats(context.Background(), h.managerRole)
	if err != nil {
		return reply.Error(c, h.texts, h.log, err)
	}
	return c.Send(Format(st, industries))
}

// Format текст отчета со статистикой
func Format(st model.Stats, industries []model.IndustryCount) string {
	var sb strings.Builder
	sb.WriteString("📊 Статистика\n")
	fmt.Fprintf(&sb, "Прохождений: %d\n", st.TotalResults)
	fmt.Fprintf(&sb, "Уникальных пользователей: %d\n", st.UniqueUsers)
	fmt.Fprintf(&sb, "Групп: %d, в среднем %.1f участника\n", st.Groups, st.AvgGroupSize)
	fmt.Fprintf(&sb, "Руководителей: %d, сотрудников: %d\n", st.Managers, st.Employees)
	fmt.Fprintf(&sb, "Ответили на открытые вопросы: %.1f%%\n", st.OpenAnswerRate)
	fmt.Fprintf(&sb, "Средние потери: %s\n", optional(st.AvgLosses))
	fmt.Fprintf(&sb, "Средний индекс при указанной стоимости: %s\n", optional(st.AvgAverageWithPC))

	if len(industries) > 0 {
		sb.WriteString("\nПо индустриям:\n")
		for _, ic := range industries {
			fmt.Fprintf(&sb, "%s: %d\n", ic.Industry, ic.Count)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StatsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
