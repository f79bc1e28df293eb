package ping_handler

import "gopkg.in/telebot.v4"

// PingHandler проверка, что бот отвечает
type PingHandler struct{}

func NewPingHandler() *PingHandler {
	return &PingHandler{}
}

func (h *PingHandler) Handle(c telebot.Context) error {
	return c.Send("Pong!")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *PingHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
