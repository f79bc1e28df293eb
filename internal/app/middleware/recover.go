package middleware

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Recover возвращает middleware, которое перехватывает панику в обработчике и вызывает onError.
// Если onError не передан, паника только логируется.
func Recover(log logrus.FieldLogger, onError ...func(error, telebot.Context)) telebot.MiddlewareFunc {
	handleError := func(err error, c telebot.Context) {
		log.WithError(err).Error("recovered from panic")
	}
	if len(onError) > 0 {
		handleError = onError[0]
	}

	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var e error
					switch x := r.(type) {
					case error:
						e = x
					case string:
						e = errors.New(x)
					default:
						e = fmt.Errorf("unknown panic: %v", x)
					}
					handleError(e, c)
					err = e
				}
			}()
			return next(c)
		}
	}
}
