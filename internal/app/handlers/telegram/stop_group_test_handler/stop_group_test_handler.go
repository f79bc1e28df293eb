package stop_group_test_handler

import (
	"context"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"github.com/IT-Nick/assessment-bot/internal/domain/session"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Companies закрытие групп пользователя
type Companies interface {
	StopGroups(ctx context.Context, creatorID int64) (int64, error)
	CanJoin(ctx context.Context, companyID int64) (bool, error)
}

// StopGroupTestHandler обработчик /stopgrouptest
type StopGroupTestHandler struct {
	companies Companies
	members   *session.Members
	texts     reply.Texts
	log       logrus.FieldLogger
}

func NewStopGroupTestHandler(companies Companies, members *session.Members, texts reply.Texts, log logrus.FieldLogger) *StopGroupTestHandler {
	return &StopGroupTestHandler{companies: companies, members: members, texts: texts, log: log}
}

// Handle закрывает все группы, созданные пользователем. Ссылки перестают работать.
// Если пользователь был привязан к закрытой группе, привязка снимается.
func (h *StopGroupTestHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	userID := c.Sender().ID

	n, err := h.companies.StopGroups(ctx, userID)
	if err != nil {
		return reply.Error(c, h.texts, h.log, err)
	}
	h.log.WithFields(logrus.Fields{"user_id": userID, "companies": n}).Info("companies deactivated")

	if companyID := h.members.Company(userID); companyID != nil {
		active, err := h.companies.CanJoin(ctx, *companyID)
		if err != nil {
			return reply.Error(c, h.texts, h.log, err)
		}
		if !active {
			h.members.Unbind(userID)
		}
	}

	return c.Send(h.texts.Get("company_deleted"), &telebot.SendOptions{
		ReplyMarkup: &telebot.ReplyMarkup{RemoveKeyboard: true},
	})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StopGroupTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
