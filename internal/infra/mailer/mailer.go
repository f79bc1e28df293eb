package mailer

import (
	"context"
	"fmt"
	"io"

	"github.com/IT-Nick/assessment-bot/internal/domain/session"
	"gopkg.in/gomail.v2"
)

// ChartName имя встроенного изображения, на которое ссылается шаблон как cid:chart.png
const ChartName = "chart.png"

// Dialer отправляет собранные письма
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer отправляет письма с рекомендациями по SMTP
type Mailer struct {
	dialer Dialer
	from   string
}

// New создает Mailer поверх SMTP сервера
func New(host string, port int, from, password string) *Mailer {
	d := gomail.NewDialer(host, port, from, password)
	d.SSL = port == 465
	return &Mailer{dialer: d, from: from}
}

// NewWithDialer создает Mailer с произвольным Dialer
func NewWithDialer(d Dialer, from string) *Mailer {
	return &Mailer{dialer: d, from: from}
}

// Build собирает письмо: HTML тело, график во вложении inline и файлы
func (m *Mailer) Build(msg session.Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	if len(msg.Chart) > 0 {
		gm.Embed(ChartName, gomail.SetCopyFunc(writeBytes(msg.Chart)))
	}
	for _, a := range msg.Attachments {
		gm.Attach(a.Name, gomail.SetCopyFunc(writeBytes(a.Data)))
	}
	return gm
}

// Send отправляет письмо
func (m *Mailer) Send(ctx context.Context, msg session.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.Build(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

func writeBytes(data []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}
}
