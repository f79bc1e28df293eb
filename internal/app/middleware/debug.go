package middleware

import (
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"gopkg.in/telebot.v4"
)

// StateSource текущий шаг сессии пользователя
type StateSource interface {
	State(userID int64) (model.State, bool)
}

// DebugUserActions возвращает middleware, которое при включённом режиме отладки после обработки
// отправляет пользователю имя, ID, шаг сессии и действие.
func DebugUserActions(enabled bool, states StateSource) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			err := next(c)
			if !enabled || c.Sender() == nil {
				return err
			}

			user := c.Sender()
			state := model.StateIdle
			if s, ok := states.State(user.ID); ok {
				state = s
			}

			var action string
			if msg := c.Message(); msg != nil {
				action = "Message: " + msg.Text
			} else if cb := c.Callback(); cb != nil {
				action = "Callback: " + cb.Data
			} else {
				action = "Unknown action"
			}

			debugMsg := fmt.Sprintf("DEBUG: User: %s (ID: %d), State: %s, Action: %s",
				user.FirstName, user.ID, state, action)
			if sendErr := c.Send(debugMsg); sendErr != nil && err == nil {
				return sendErr
			}
			return err
		}
	}
}
