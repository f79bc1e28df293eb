package about_handler

import (
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"gopkg.in/telebot.v4"
)

// AboutHandler отвечает на /about
type AboutHandler struct {
	texts reply.Texts
}

func NewAboutHandler(texts reply.Texts) *AboutHandler {
	return &AboutHandler{texts: texts}
}

func (h *AboutHandler) Handle(c telebot.Context) error {
	return c.Send(h.texts.Get("about"), &telebot.SendOptions{ParseMode: telebot.ModeHTML})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *AboutHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
