package my_results_handler

import (
	"context"
	"testing"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/telegramtest"
	"github.com/IT-Nick/assessment-bot/internal/domain/locale"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/IT-Nick/assessment-bot/internal/domain/results/service"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v4"
)

type fakeReports struct {
	reports []service.CompanyReport
	has     bool
}

func (f fakeReports) CompanyReports(context.Context, int64) ([]service.CompanyReport, error) {
	return f.reports, nil
}

func (f fakeReports) HasCompanies(context.Context, int64) (bool, error) {
	return f.has, nil
}

var texts = locale.New(map[string]string{
	"company_results":           "Результаты группы",
	"company_results_full":      "Группа %d: %d ответов, средний индекс %.1f",
	"company_results_nocompany": "У вас нет групп",
	"company_results_none":      "Пока никто не прошел тест",
})

func newContext() *telegramtest.Context {
	return telegramtest.NewContext(&telebot.User{ID: 100}, "/myresults")
}

func TestMyResultsSendsExportAndSummary(t *testing.T) {
	log, _ := test.NewNullLogger()
	reports := fakeReports{reports: []service.CompanyReport{{
		Summary: model.CompanySummary{CompanyID: 3, Respondents: 2, Average: 6.25},
		CSV:     "username,role\nbob,Employee\n",
	}}}
	c := newContext()

	require.NoError(t, NewMyResultsHandler(reports, texts, log).Handle(c))
	require.Len(t, c.Sent, 2)
	doc, ok := c.Sent[0].What.(*telebot.Document)
	require.True(t, ok)
	assert.Equal(t, "company_3_results.csv", doc.FileName)
	assert.Equal(t, "Группа 3: 2 ответов, средний индекс 6.3", c.Sent[1].What)
}

func TestMyResultsWithoutCompanies(t *testing.T) {
	log, _ := test.NewNullLogger()

	c := newContext()
	require.NoError(t, NewMyResultsHandler(fakeReports{}, texts, log).Handle(c))
	assert.Equal(t, []string{"У вас нет групп"}, c.Texts())

	c = newContext()
	require.NoError(t, NewMyResultsHandler(fakeReports{has: true}, texts, log).Handle(c))
	assert.Equal(t, []string{"Пока никто не прошел тест"}, c.Texts())
}
