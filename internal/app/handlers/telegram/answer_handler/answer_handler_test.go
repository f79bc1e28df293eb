package answer_handler

import (
	"context"
	"errors"
	"testing"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/telegramtest"
	"github.com/IT-Nick/assessment-bot/internal/domain/locale"
	"github.com/IT-Nick/assessment-bot/internal/domain/session"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v4"
)

type fakeSessions struct {
	texts []string
	reply session.Reply
	err   error
}

func (f *fakeSessions) Handle(_ context.Context, _ session.User, text string) (session.Reply, error) {
	f.texts = append(f.texts, text)
	return f.reply, f.err
}

var texts = locale.New(map[string]string{
	"error":              "Ошибка",
	"error_noactivetest": "Сначала начните тест: /starttest",
})

func newHandler(s *fakeSessions) *AnswerHandler {
	log, _ := test.NewNullLogger()
	return NewAnswerHandler(s, session.NewMembers(), texts, log)
}

func TestAnswerForwardsText(t *testing.T) {
	s := &fakeSessions{reply: session.Reply{Text: "Следующий вопрос", Options: []string{"1", "2"}}}
	c := telegramtest.NewContext(&telebot.User{ID: 1}, "/skip")

	require.NoError(t, newHandler(s).Handle(c))
	assert.Equal(t, []string{"/skip"}, s.texts)
	assert.Equal(t, []string{"Следующий вопрос"}, c.Texts())
}

func TestAnswerWithoutSession(t *testing.T) {
	s := &fakeSessions{err: session.ErrNoActiveTest}
	c := telegramtest.NewContext(&telebot.User{ID: 1}, "7")

	require.NoError(t, newHandler(s).Handle(c))
	assert.Equal(t, []string{"Сначала начните тест: /starttest"}, c.Texts())
}

func TestAnswerPersistenceFailure(t *testing.T) {
	s := &fakeSessions{err: errors.New("failed to save result: conn closed")}
	c := telegramtest.NewContext(&telebot.User{ID: 1}, "7")

	require.NoError(t, newHandler(s).Handle(c))
	assert.Equal(t, []string{"Ошибка"}, c.Texts())
}
