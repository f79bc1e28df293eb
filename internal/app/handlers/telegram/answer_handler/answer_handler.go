package answer_handler

import (
	"context"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"github.com/IT-Nick/assessment-bot/internal/domain/session"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Sessions продвижение теста по ответу пользователя
type Sessions interface {
	Handle(ctx context.Context, u session.User, text string) (session.Reply, error)
}

// AnswerHandler передает текст пользователя в текущую сессию.
// Регистрируется на любой текст и на /skip.
type AnswerHandler struct {
	sessions Sessions
	members  *session.Members
	texts    reply.Texts
	log      logrus.FieldLogger
}

func NewAnswerHandler(sessions Sessions, members *session.Members, texts reply.Texts, log logrus.FieldLogger) *AnswerHandler {
	return &AnswerHandler{
		sessions: sessions,
		members:  members,
		texts:    texts,
		log:      log,
	}
}

func (h *AnswerHandler) Handle(c telebot.Context) error {
	r, err := h.sessions.Handle(context.Background(), reply.User(c, h.members), c.Text())
	if err != nil {
		return reply.Error(c, h.texts, h.log, err)
	}
	return reply.Send(c, r)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *AnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
