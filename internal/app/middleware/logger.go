package middleware

import (
	"encoding/json"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Logger возвращает middleware, которое присваивает обновлению request_id и логирует его обработку.
// Полное обновление в JSON пишется только на уровне debug.
func Logger(log logrus.FieldLogger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			requestID := uuid.NewString()
			c.Set(reply.RequestIDKey, requestID)

			entry := log.WithFields(logrus.Fields{
				"request_id": requestID,
				"command":    Command(c),
			})
			if sender := c.Sender(); sender != nil {
				entry = entry.WithField("user_id", sender.ID)
			}
			if l, ok := log.(*logrus.Logger); ok && l.IsLevelEnabled(logrus.DebugLevel) {
				data, _ := json.MarshalIndent(c.Update(), "", "  ")
				entry.Debug(string(data))
			}

			start := time.Now()
			err := next(c)
			entry = entry.WithField("duration", time.Since(start))
			if err != nil {
				entry.WithError(err).Error("update failed")
				return err
			}
			entry.Info("update handled")
			return nil
		}
	}
}
