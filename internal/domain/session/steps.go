package session

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/IT-Nick/assessment-bot/internal/domain/report"
	"github.com/IT-Nick/assessment-bot/internal/domain/scoring"
	"github.com/sirupsen/logrus"
)

var ratingOptions = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

func (e *Engine) onRole(ctx context.Context, s *model.Session, text string) (Reply, error) {
	role, ok := e.catalog.RoleByName(strings.TrimSpace(text))
	if !ok {
		return Reply{Text: e.texts.Get("error_wrongrole"), Options: e.catalog.RoleNames()}, nil
	}
	s.RoleID = role.ID

	// участники группы, кроме руководителя, не указывают индустрию и размер команды
	if s.InGroup() && !e.catalog.IsManager(role.ID) {
		return e.startQuestions(ctx, s)
	}

	s.State = model.StateIndustry
	return Reply{Text: e.texts.Get("industry_select"), Options: e.catalog.Industries()}, nil
}

func (e *Engine) onIndustry(s *model.Session, text string) Reply {
	industry := strings.TrimSpace(text)
	s.Industry = &industry
	s.State = model.StateTeamSize
	return Reply{Text: e.texts.Get("team_size_question"), RemoveKeyboard: true}
}

func (e *Engine) onTeamSize(s *model.Session, text string) Reply {
	size, err := strconv.Atoi(strings.TrimSpace(text))
	// размер команды хранится в INTEGER
	if err != nil || size <= 0 || size > math.MaxInt32 {
		return Reply{Text: e.texts.Get("error_positive_number")}
	}
	if s.InGroup() && size < 2 {
		return Reply{Text: e.texts.Get("error_group_team_size")}
	}
	s.TeamSize = &size
	s.State = model.StatePersonCost
	return Reply{Text: e.texts.Get("person_cost_question"), Options: []string{SkipToken}}
}

func (e *Engine) onPersonCost(ctx context.Context, s *model.Session, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text != SkipToken {
		if _, err := scoring.ParseCost(text); err != nil {
			return Reply{Text: e.texts.Get("error_positive_number"), Options: []string{SkipToken}}, nil
		}
		s.PersonCost = &text
	}
	return e.startQuestions(ctx, s)
}

// startQuestions перемешивает вопросы роли и задает первый из них
func (e *Engine) startQuestions(ctx context.Context, s *model.Session) (Reply, error) {
	role, ok := e.catalog.Role(s.RoleID)
	if !ok {
		return Reply{}, fmt.Errorf("unknown role %s", s.RoleID)
	}

	pending := e.catalog.Pairs(role.ID)
	e.shuffle(len(pending), func(i, j int) {
		pending[i], pending[j] = pending[j], pending[i]
	})
	s.Pending = pending
	s.PendingOpen = append([]string(nil), role.OpenQuestions...)
	s.Answers = nil
	s.OpenAnswers = nil
	for _, c := range role.Categories {
		s.SetScore(c.ID, 0)
	}

	reply, err := e.next(ctx, s)
	if err != nil {
		return reply, err
	}
	reply.Notice = e.texts.Get("start_test_explanation")
	return reply, nil
}

// next задает следующий вопрос или завершает тест
func (e *Engine) next(ctx context.Context, s *model.Session) (Reply, error) {
	s.Current = nil
	s.CurrentOpen = ""

	if len(s.Pending) > 0 {
		q := s.Pending[0]
		s.Pending = s.Pending[1:]
		s.Current = &q
		s.State = model.StateQuestion
		return Reply{Text: q.Prompt, Options: ratingOptions}, nil
	}
	if len(s.PendingOpen) > 0 {
		s.CurrentOpen = s.PendingOpen[0]
		s.PendingOpen = s.PendingOpen[1:]
		s.State = model.StateOpenQuestion
		return Reply{
			Text:    s.CurrentOpen + "\n\n" + e.texts.Get("open_question_hint"),
			Options: []string{SkipToken},
		}, nil
	}
	return e.complete(ctx, s)
}

func (e *Engine) onQuestion(ctx context.Context, s *model.Session, text string) (Reply, error) {
	if s.Current == nil {
		return e.next(ctx, s)
	}
	rating, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || rating < 1 || rating > scoring.MaxScore {
		return Reply{
			Notice:  e.texts.Get("error_outofrange"),
			Text:    s.Current.Prompt,
			Options: ratingOptions,
		}, nil
	}

	s.Answers = append(s.Answers, model.Answer{
		Question: s.Current.Prompt,
		Rating:   rating,
		Category: s.Current.Category,
	})
	s.AddScore(s.Current.Category, rating)
	return e.next(ctx, s)
}

func (e *Engine) onOpenQuestion(ctx context.Context, s *model.Session, text string) (Reply, error) {
	if strings.TrimSpace(text) != SkipToken && s.CurrentOpen != "" {
		s.OpenAnswers = append(s.OpenAnswers, model.OpenAnswer{Question: s.CurrentOpen, Text: text})
	}
	return e.next(ctx, s)
}

// complete сохраняет результат и собирает итог. Сессия удаляется до сохранения,
// поэтому повторное завершение невозможно.
func (e *Engine) complete(ctx context.Context, s *model.Session) (Reply, error) {
	if !e.store.Delete(s.UserID) {
		return Reply{}, ErrNoActiveTest
	}
	s.State = model.StateIdle
	e.observer.SessionCompleted()
	e.observer.ActiveSessions(e.store.Len())

	average := scoring.Average(s)
	if _, err := e.results.SaveResult(ctx, s); err != nil {
		return Reply{}, err
	}

	role, _ := e.catalog.Role(s.RoleID)
	values := e.categoryValues(s)

	var loss *scoring.LossEstimate
	if est, ok := scoring.Loss(average, s.PersonCost, s.TeamSize); ok {
		loss = &est
	}

	c := e.builder.Completion(role.Name, values, average, loss, s.InGroup())
	reply := Reply{Text: c.Caption, RemoveKeyboard: true, Completion: &c}
	reply.Image = e.renderChart(c.Chart)
	return reply, nil
}

// categoryValues баллы категорий сессии в порядке категорий
func (e *Engine) categoryValues(s *model.Session) []scoring.CategoryValue {
	values := make([]scoring.CategoryValue, 0, len(s.Categories))
	for _, id := range s.Categories {
		values = append(values, scoring.CategoryValue{
			ID:    id,
			Name:  e.catalog.CategoryName(id),
			Value: scoring.CategoryScore(s, e.catalog, id),
		})
	}
	return values
}

func (e *Engine) renderChart(c report.Chart) []byte {
	if e.charts == nil {
		return nil
	}
	img, err := e.charts.Render(c)
	if err != nil {
		e.log.WithError(err).WithField("chart", c.Title).Error("failed to render chart")
		return nil
	}
	return img
}

func (e *Engine) withUser(s *model.Session) logrus.FieldLogger {
	return e.log.WithFields(logrus.Fields{"user_id": s.UserID, "state": s.State.String()})
}
