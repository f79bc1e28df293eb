package start_handler

import (
	"context"
	"strconv"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"github.com/IT-Nick/assessment-bot/internal/domain/session"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Companies проверка, что по ссылке еще можно пройти тест
type Companies interface {
	CanJoin(ctx context.Context, companyID int64) (bool, error)
}

// StartHandler структура для обработки команды /start [companyID]
type StartHandler struct {
	companies Companies
	members   *session.Members
	texts     reply.Texts
	log       logrus.FieldLogger
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(companies Companies, members *session.Members, texts reply.Texts, log logrus.FieldLogger) *StartHandler {
	return &StartHandler{
		companies: companies,
		members:   members,
		texts:     texts,
		log:       log,
	}
}

// Handle приветствует пользователя. Если передан id группы, привязывает пользователя к ней.
func (h *StartHandler) Handle(c telebot.Context) error {
	keyboard := &telebot.SendOptions{ParseMode: telebot.ModeHTML, ReplyMarkup: reply.Keyboard("/starttest")}

	args := c.Args()
	if len(args) == 0 {
		welcome := h.texts.Format("start_reply", h.texts.Get("start_recommendations_nocompany"))
		return c.Send(welcome, keyboard)
	}

	companyID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || companyID <= 0 {
		return c.Send(h.texts.Get("error_companylinkstopped"), keyboard)
	}

	// Используем дефолтный контекст
	ok, err := h.companies.CanJoin(context.Background(), companyID)
	if err != nil {
		return reply.Error(c, h.texts, h.log, err)
	}
	if !ok {
		return c.Send(h.texts.Get("error_companylinkstopped"), keyboard)
	}

	h.members.Bind(c.Sender().ID, companyID)
	h.log.WithFields(logrus.Fields{"user_id": c.Sender().ID, "company_id": companyID}).Info("user joined company")

	welcome := h.texts.Format("start_reply", h.texts.Get("start_company_detected"))
	return c.Send(welcome, keyboard)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
