package reply

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/IT-Nick/assessment-bot/internal/domain/session"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// MaxCaption ограничение Telegram на длину подписи к фото
const MaxCaption = 1024

// короткие варианты (оценки 1–10) размещаются по rowSize в ряд
const rowSize = 5

// Texts строки локали, которые нужны обработчикам
type Texts interface {
	Get(key string) string
	Format(key string, args ...any) string
}

// Send отправляет ответ движка: сначала уведомление, затем текст с клавиатурой или картинку с подписью
func Send(c telebot.Context, r session.Reply) error {
	if r.Notice != "" {
		if err := c.Send(r.Notice, &telebot.SendOptions{ParseMode: telebot.ModeHTML}); err != nil {
			return fmt.Errorf("failed to send notice: %w", err)
		}
	}

	opts := &telebot.SendOptions{ParseMode: telebot.ModeHTML, ReplyMarkup: Markup(r)}
	if len(r.Image) > 0 {
		photo := &telebot.Photo{File: telebot.FromReader(bytes.NewReader(r.Image))}
		if utf8.RuneCountInString(r.Text) <= MaxCaption {
			photo.Caption = r.Text
			return c.Send(photo, opts)
		}
		if err := c.Send(photo); err != nil {
			return fmt.Errorf("failed to send photo: %w", err)
		}
	}
	if r.Text == "" {
		return nil
	}
	return c.Send(r.Text, opts)
}

// Markup строит клавиатуру ответа. nil, если клавиатуру менять не нужно.
func Markup(r session.Reply) *telebot.ReplyMarkup {
	switch {
	case len(r.Options) > 0:
		m := &telebot.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
		m.Reply(rows(m, r.Options)...)
		return m
	case r.RemoveKeyboard:
		return &telebot.ReplyMarkup{RemoveKeyboard: true}
	}
	return nil
}

// Keyboard клавиатура из одного ряда команд
func Keyboard(commands ...string) *telebot.ReplyMarkup {
	m := &telebot.ReplyMarkup{ResizeKeyboard: true}
	btns := make([]telebot.Btn, 0, len(commands))
	for _, cmd := range commands {
		btns = append(btns, m.Text(cmd))
	}
	m.Reply(m.Row(btns...))
	return m
}

func rows(m *telebot.ReplyMarkup, options []string) []telebot.Row {
	out := make([]telebot.Row, 0, len(options))
	var short []telebot.Btn
	for _, o := range options {
		if utf8.RuneCountInString(o) > 2 {
			out = append(out, m.Row(m.Text(o)))
			continue
		}
		short = append(short, m.Text(o))
		if len(short) == rowSize {
			out = append(out, m.Row(short...))
			short = nil
		}
	}
	if len(short) > 0 {
		out = append(out, m.Row(short...))
	}
	return out
}

// Error отвечает пользователю на ошибку обработчика.
// Отсутствие сессии не считается сбоем, остальные ошибки логируются.
func Error(c telebot.Context, texts Texts, log logrus.FieldLogger, err error) error {
	if errors.Is(err, session.ErrNoActiveTest) {
		return c.Send(texts.Get("error_noactivetest"), &telebot.SendOptions{ReplyMarkup: Keyboard("/starttest")})
	}
	log.WithFields(logrus.Fields{
		"user_id":    c.Sender().ID,
		"request_id": c.Get(RequestIDKey),
	}).WithError(err).Error("failed to handle update")
	return c.Send(texts.Get("error"))
}

// RequestIDKey ключ идентификатора обновления в контексте telebot
const RequestIDKey = "request_id"

// User участник сессии по отправителю обновления
func User(c telebot.Context, members *session.Members) session.User {
	sender := c.Sender()
	username := sender.Username
	if username == "" {
		username = fullName(sender)
	}
	return session.User{ID: sender.ID, Username: username, CompanyID: members.Company(sender.ID)}
}

func fullName(u *telebot.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
