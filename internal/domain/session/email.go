package session

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/IT-Nick/assessment-bot/internal/domain/report"
	"github.com/IT-Nick/assessment-bot/internal/domain/scoring"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9-]+(?:\\.[a-zA-Z0-9-]+)*\\.[a-zA-Z]{2,}$")

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidEmail проверяет адрес для отправки рекомендаций
func (e *Engine) ValidEmail(addr string) bool {
	return e.validate.Var(addr, "required,max=320,mailbox") == nil
}

// BeginEmail запрашивает адрес для отправки рекомендаций по последнему результату
func (e *Engine) BeginEmail(ctx context.Context, u User) (Reply, error) {
	unlock := e.store.Lock(u.ID)
	defer unlock()

	res, err := e.results.LatestResult(ctx, u.Username)
	if err != nil {
		return Reply{}, err
	}
	if res == nil {
		return Reply{Text: e.texts.Get("error_notest")}, nil
	}
	if res.Average >= scoring.MaxScore {
		return Reply{Text: e.texts.Format("error_perfect", e.cfg.Contacts.Number)}, nil
	}

	s := model.NewSession(u.ID, u.Username, u.CompanyID, e.now())
	s.State = model.StateEmailCollect
	e.store.Set(s)
	e.observer.ActiveSessions(e.store.Len())
	return Reply{Text: e.texts.Get("request_email"), RemoveKeyboard: true}, nil
}

// BeginGroupEmail запрашивает адрес для отправки рекомендаций по группе пользователя
func (e *Engine) BeginGroupEmail(ctx context.Context, u User) (Reply, error) {
	unlock := e.store.Lock(u.ID)
	defer unlock()

	summary, ok, err := e.results.LatestCompanyWithResults(ctx, u.ID)
	if err != nil {
		return Reply{}, err
	}
	if !ok {
		return Reply{Text: e.texts.Get("company_results_nocompany")}, nil
	}
	if summary.Respondents == 0 {
		return Reply{Text: e.texts.Get("company_results_none")}, nil
	}

	companyID := summary.CompanyID
	s := model.NewSession(u.ID, u.Username, &companyID, e.now())
	s.State = model.StateGroupEmailCollect
	e.store.Set(s)
	e.observer.ActiveSessions(e.store.Len())
	return Reply{Text: e.texts.Get("request_email"), RemoveKeyboard: true}, nil
}

func (e *Engine) onEmail(ctx context.Context, s *model.Session, text string) (Reply, error) {
	addr := strings.TrimSpace(text)
	if !e.ValidEmail(addr) {
		return Reply{Text: e.texts.Get("bad_email_address")}, nil
	}
	e.store.Delete(s.UserID)
	e.observer.ActiveSessions(e.store.Len())

	res, err := e.results.LatestResult(ctx, s.Username)
	if err != nil {
		return Reply{}, err
	}
	if res == nil {
		return Reply{Text: e.texts.Get("error_notest")}, nil
	}
	averages, err := e.results.ResultCategoryAverages(ctx, res.ID)
	if err != nil {
		return Reply{}, err
	}

	synthetic := e.meanSession(s.UserID, res.Role, averages)
	values := e.categoryValues(synthetic)
	average := scoring.Average(synthetic)
	recs := e.recommend(values)

	roleName := res.Role
	if role, ok := e.catalog.Role(res.Role); ok {
		roleName = role.Name
	}
	mail := e.builder.Email(roleName, values, average, recs)

	e.deliver(ctx, s, Message{
		To:      addr,
		Subject: e.cfg.EmailSubject,
		HTML:    report.EmailBody(e.cfg.EmailTemplate, mail.Content, e.cfg.Contacts),
		Chart:   e.renderChart(mail.Chart),
	})
	return Reply{Text: e.texts.Get("email_sent")}, nil
}

func (e *Engine) onGroupEmail(ctx context.Context, s *model.Session, text string) (Reply, error) {
	addr := strings.TrimSpace(text)
	if !e.ValidEmail(addr) {
		return Reply{Text: e.texts.Get("bad_email_address")}, nil
	}
	e.store.Delete(s.UserID)
	e.observer.ActiveSessions(e.store.Len())
	if s.CompanyID == nil {
		return Reply{}, ErrNoActiveTest
	}
	companyID := *s.CompanyID

	group, err := e.buildGroupInput(ctx, companyID)
	if err != nil {
		return Reply{}, err
	}
	recs := e.recommend(group.Group)
	mail := e.builder.GroupEmail(group, recs)
	chart := e.renderChart(mail.Chart)

	attachments := []Attachment{{
		Name: fmt.Sprintf("company_%d_results.csv", companyID),
		Data: []byte(mail.CSV),
	}}
	if e.pdf != nil {
		doc, err := e.pdf.Render(mail, chart)
		if err != nil {
			e.withUser(s).WithError(err).Error("failed to render group report")
		} else {
			attachments = append(attachments, Attachment{
				Name: fmt.Sprintf("company_%d_report.pdf", companyID),
				Data: doc,
			})
		}
	}

	e.deliver(ctx, s, Message{
		To:          addr,
		Subject:     e.cfg.EmailSubject,
		HTML:        report.EmailBody(e.cfg.EmailTemplate, mail.Content, e.cfg.Contacts),
		Chart:       chart,
		Attachments: attachments,
	})
	return Reply{Text: e.texts.Get("email_sent")}, nil
}

// buildGroupInput собирает агрегаты компании для письма руководителю
func (e *Engine) buildGroupInput(ctx context.Context, companyID int64) (report.GroupInput, error) {
	in := report.GroupInput{CompanyID: companyID}

	averages, err := e.results.CompanyCategoryAverages(ctx, companyID, nil)
	if err != nil {
		return in, err
	}
	synthetic := e.meanSession(0, e.catalog.ManagerRole(), averages)
	in.Group = e.categoryValues(synthetic)
	in.Average = scoring.Average(synthetic)

	manager, err := e.results.CompanyManagerResult(ctx, companyID, e.catalog.ManagerRole())
	if err != nil {
		return in, err
	}
	if manager != nil {
		in.Manager, err = e.results.ResultCategoryAverages(ctx, manager.ID)
		if err != nil {
			return in, err
		}
		if manager.PersonCost != nil {
			cost := decimal.NewFromFloat(*manager.PersonCost).String()
			if est, ok := scoring.Loss(in.Average, &cost, manager.TeamSize); ok {
				in.Loss = &est
			}
		}
	}

	summary, err := e.results.CompanySummary(ctx, companyID)
	if err != nil {
		return in, err
	}
	in.Respondents = summary.Respondents

	in.CSV, err = e.results.CompanyResultsExport(ctx, companyID)
	if err != nil {
		return in, err
	}
	return in, nil
}

// meanSession строит сессию из сохраненных средних по категориям в порядке каталога
func (e *Engine) meanSession(userID int64, roleID string, averages map[string]float64) *model.Session {
	s := model.NewSession(userID, "", nil, e.now())
	s.RoleID = roleID
	s.Mode = model.CategoryMean
	for _, c := range e.catalog.Categories() {
		if v, ok := averages[c.ID]; ok {
			s.SetScore(c.ID, v)
		}
	}
	return s
}

func (e *Engine) recommend(values []scoring.CategoryValue) []scoring.CategoryRecommendation {
	e.rndMu.Lock()
	defer e.rndMu.Unlock()
	return scoring.Recommend(values, e.catalog, e.rnd)
}

// deliver отправляет письмо. Ошибка доставки только логируется.
func (e *Engine) deliver(ctx context.Context, s *model.Session, m Message) {
	if e.mailer == nil {
		return
	}
	if err := e.mailer.Send(ctx, m); err != nil {
		e.observer.EmailDelivered(false)
		e.withUser(s).WithError(err).Error("failed to send email")
		return
	}
	e.observer.EmailDelivered(true)
}
