package group_test_handler

import (
	"context"
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"github.com/IT-Nick/assessment-bot/internal/domain/session"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Companies создание группы
type Companies interface {
	StartGroup(ctx context.Context, creatorID int64) (int64, error)
}

// GroupTestHandler обработчик /grouptest: создает группу и выдает ссылку-приглашение
type GroupTestHandler struct {
	companies   Companies
	members     *session.Members
	botUsername string
	texts       reply.Texts
	log         logrus.FieldLogger
}

func NewGroupTestHandler(
	companies Companies,
	members *session.Members,
	botUsername string,
	texts reply.Texts,
	log logrus.FieldLogger,
) *GroupTestHandler {
	return &GroupTestHandler{
		companies:   companies,
		members:     members,
		botUsername: botUsername,
		texts:       texts,
		log:         log,
	}
}

// InviteLink ссылка, по которой участники попадают в группу
func InviteLink(botUsername string, companyID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", botUsername, companyID)
}

// Handle создает группу и привязывает к ней создателя
func (h *GroupTestHandler) Handle(c telebot.Context) error {
	creatorID := c.Sender().ID
	companyID, err := h.companies.StartGroup(context.Background(), creatorID)
	if err != nil {
		return reply.Error(c, h.texts, h.log, err)
	}
	h.members.Bind(creatorID, companyID)
	h.log.WithFields(logrus.Fields{"user_id": creatorID, "company_id": companyID}).Info("company created")

	text := h.texts.Format("company_created", InviteLink(h.botUsername, companyID), companyID)
	return c.Send(text, &telebot.SendOptions{ParseMode: telebot.ModeHTML, ReplyMarkup: reply.Keyboard("/starttest")})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *GroupTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
