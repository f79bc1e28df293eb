package start_test_handler

import (
	"context"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"github.com/IT-Nick/assessment-bot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// Sessions запуск нового теста
type Sessions interface {
	Begin(ctx context.Context, u session.User) session.Reply
}

// StartTestHandler обработчик /starttest
type StartTestHandler struct {
	sessions Sessions
	members  *session.Members
}

// NewStartTestHandler возвращает структуру обработчика
func NewStartTestHandler(sessions Sessions, members *session.Members) *StartTestHandler {
	return &StartTestHandler{sessions: sessions, members: members}
}

// Handle начинает тест с выбора роли. Незавершенный тест пользователя сбрасывается.
func (h *StartTestHandler) Handle(c telebot.Context) error {
	r := h.sessions.Begin(context.Background(), reply.User(c, h.members))
	return reply.Send(c, r)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
