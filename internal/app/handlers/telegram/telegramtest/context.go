// Package telegramtest подменяет telebot.Context в тестах обработчиков
package telegramtest

import (
	"errors"
	"strings"

	"gopkg.in/telebot.v4"
)

// Sent одно отправленное сообщение
type Sent struct {
	What any
	Opts []any
}

// Context записывает все отправленные сообщения.
// Методы, которые не переопределены, паникуют через nil-интерфейс.
type Context struct {
	telebot.Context

	User    *telebot.User
	Msg     string
	Values  map[string]any
	Sent    []Sent
	SendErr error
}

func NewContext(user *telebot.User, text string) *Context {
	return &Context{User: user, Msg: text, Values: make(map[string]any)}
}

func (c *Context) Sender() *telebot.User { return c.User }
func (c *Context) Text() string          { return c.Msg }
func (c *Context) Get(key string) any    { return c.Values[key] }
func (c *Context) Set(key string, v any) { c.Values[key] = v }

func (c *Context) Message() *telebot.Message {
	return &telebot.Message{Text: c.Msg, Sender: c.User}
}

func (c *Context) Callback() *telebot.Callback { return nil }

func (c *Context) Update() telebot.Update {
	return telebot.Update{Message: c.Message()}
}

func (c *Context) Args() []string {
	fields := strings.Fields(c.Msg)
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		return fields[1:]
	}
	return fields
}

func (c *Context) Send(what any, opts ...any) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.Sent = append(c.Sent, Sent{What: what, Opts: opts})
	return nil
}

// Texts текстовые сообщения и подписи в порядке отправки
func (c *Context) Texts() []string {
	var out []string
	for _, s := range c.Sent {
		switch v := s.What.(type) {
		case string:
			out = append(out, v)
		case *telebot.Photo:
			out = append(out, v.Caption)
		case *telebot.Document:
			out = append(out, v.Caption)
		}
	}
	return out
}

// Last последнее отправленное сообщение
func (c *Context) Last() (Sent, error) {
	if len(c.Sent) == 0 {
		return Sent{}, errors.New("nothing was sent")
	}
	return c.Sent[len(c.Sent)-1], nil
}

// Markup клавиатура из опций отправки
func (s Sent) Markup() *telebot.ReplyMarkup {
	for _, o := range s.Opts {
		switch v := o.(type) {
		case *telebot.SendOptions:
			return v.ReplyMarkup
		case *telebot.ReplyMarkup:
			return v
		}
	}
	return nil
}
