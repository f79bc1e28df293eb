package recommendations_handler

import (
	"context"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"github.com/IT-Nick/assessment-bot/internal/domain/session"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// beginFunc запускает сбор адреса почты для отчета
type beginFunc func(ctx context.Context, u session.User) (session.Reply, error)

// Sessions запуск отправки рекомендаций на почту
type Sessions interface {
	BeginEmail(ctx context.Context, u session.User) (session.Reply, error)
	BeginGroupEmail(ctx context.Context, u session.User) (session.Reply, error)
}

// RecommendationsHandler обработчик /getrecommendations и /grouprecommendations
type RecommendationsHandler struct {
	begin   beginFunc
	members *session.Members
	texts   reply.Texts
	log     logrus.FieldLogger
}

// NewRecommendationsHandler рекомендации по последнему личному результату
func NewRecommendationsHandler(sessions Sessions, members *session.Members, texts reply.Texts, log logrus.FieldLogger) *RecommendationsHandler {
	return &RecommendationsHandler{begin: sessions.BeginEmail, members: members, texts: texts, log: log}
}

// NewGroupRecommendationsHandler отчет по последней группе пользователя с результатами
func NewGroupRecommendationsHandler(sessions Sessions, members *session.Members, texts reply.Texts, log logrus.FieldLogger) *RecommendationsHandler {
	return &RecommendationsHandler{begin: sessions.BeginGroupEmail, members: members, texts: texts, log: log}
}

func (h *RecommendationsHandler) Handle(c telebot.Context) error {
	r, err := h.begin(context.Background(), reply.User(c, h.members))
	if err != nil {
		return reply.Error(c, h.texts, h.log, err)
	}
	return reply.Send(c, r)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *RecommendationsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
