package middleware

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// AdminOnly пропускает только пользователей из списка администраторов. Остальным бот не отвечает.
func AdminOnly(isAdmin func(username string) bool, log logrus.FieldLogger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			sender := c.Sender()
			if sender == nil || !isAdmin(sender.Username) {
				if sender != nil {
					log.WithFields(logrus.Fields{
						"user_id":  sender.ID,
						"username": sender.Username,
					}).Warn("admin command rejected")
				}
				return nil
			}
			return next(c)
		}
	}
}

// Metrics считает обработанные обновления по командам.
// Команды не из списка known учитываются как "unknown", чтобы не раздувать метки.
func Metrics(count func(command string), known ...string) telebot.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(known))
	for _, k := range known {
		allowed[k] = struct{}{}
	}
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			cmd := Command(c)
			if strings.HasPrefix(cmd, "/") {
				if _, ok := allowed[cmd]; !ok {
					cmd = "unknown"
				}
			}
			count(cmd)
			return next(c)
		}
	}
}

// Command команда обновления без аргументов и имени бота, либо "text" для обычного сообщения
func Command(c telebot.Context) string {
	msg := c.Message()
	if msg == nil {
		if c.Callback() != nil {
			return "callback"
		}
		return "other"
	}
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return "text"
	}
	cmd := strings.Fields(text)[0]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	return cmd
}
