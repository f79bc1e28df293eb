package report

import (
	"strings"

	"github.com/IT-Nick/assessment-bot/internal/domain/scoring"
)

// weakThreshold категории ниже этого балла попадают в список слабых
const weakThreshold = 4

// Texts источник локализованных строк
type Texts interface {
	Get(key string) string
	Format(key string, args ...any) string
}

// Series дополнительный ряд значений для сравнения на графике
type Series struct {
	Name   string
	Values []float64
}

// Chart данные для отрисовки графика по категориям
type Chart struct {
	Title      string
	Name       string
	Labels     []string
	Values     []float64
	Comparison *Series
}

// Completion итог прохождения теста, который показывается в чате
type Completion struct {
	Chart   Chart
	Average float64
	Percent float64
	Loss    *scoring.LossEstimate
	// Weakest id категорий, на которые стоит обратить внимание
	Weakest []string
	Perfect bool
	Group   bool
	Caption string
}

// Email рекомендации для отправки по почте
type Email struct {
	Heading string
	Blocks  []scoring.CategoryRecommendation
	Content string
	Chart   Chart
}

// GroupEmail рекомендации по результатам всей группы
type GroupEmail struct {
	Email
	CompanyID   int64
	Respondents int
	CSV         string
}

// Contacts контакты для подстановки в шаблон письма
type Contacts struct {
	Number string
	Link   string
	Mail   string
}

// Options настройки оформления
type Options struct {
	FreeEmoji string
	PaidEmoji string
	Contacts  Contacts
}

// Builder собирает отчеты из посчитанных баллов
type Builder struct {
	texts Texts
	opts  Options
}

// NewBuilder создает новый экземпляр Builder
func NewBuilder(texts Texts, opts Options) *Builder {
	return &Builder{texts: texts, opts: opts}
}

// NewChart строит данные графика в порядке категорий
func NewChart(title, name string, values []scoring.CategoryValue) Chart {
	c := Chart{Title: title, Name: name}
	for _, v := range values {
		c.Labels = append(c.Labels, v.Name)
		c.Values = append(c.Values, v.Value)
	}
	return c
}

// Weakest выбирает категории ниже порога, а если таких нет, то категории с минимальным баллом.
// Если все категории набрали 10, возвращает nil.
func Weakest(values []scoring.CategoryValue) []string {
	if len(values) == 0 {
		return nil
	}
	lowest := values[0].Value
	for _, v := range values[1:] {
		if v.Value < lowest {
			lowest = v.Value
		}
	}
	if lowest >= scoring.MaxScore {
		return nil
	}

	var out []string
	for _, v := range values {
		if v.Value < weakThreshold {
			out = append(out, v.ID)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, v := range values {
		if v.Value <= lowest {
			out = append(out, v.ID)
		}
	}
	return out
}

// Completion собирает итог теста для показа пользователю
func (b *Builder) Completion(roleName string, values []scoring.CategoryValue, average float64, loss *scoring.LossEstimate, group bool) Completion {
	average = scoring.Round(average, 2)
	c := Completion{
		Chart:   NewChart(b.texts.Format("chart_title", roleName), roleName, values),
		Average: average,
		Percent: scoring.Round(scoring.Percent(average), 0),
		Loss:    loss,
		Weakest: Weakest(values),
		Group:   group,
	}
	c.Perfect = len(values) > 0 && c.Weakest == nil

	var sb strings.Builder
	if c.Perfect {
		sb.WriteString(b.texts.Get("results_perfect"))
	} else {
		lossText := ""
		if loss != nil {
			lossText = b.texts.Format("results_losscalc", c.Percent, loss.Total.Round(2).String())
		}
		sb.WriteString(b.texts.Format("results", c.Average, c.Percent, lossText))

		advice := make([]string, 0, len(c.Weakest))
		for _, id := range c.Weakest {
			advice = append(advice, b.texts.Get("results_weak_"+id))
		}
		if len(advice) == 1 {
			sb.WriteString(advice[0])
		} else if len(advice) > 1 {
			sb.WriteString("\n")
			sb.WriteString(strings.Join(advice, ";\n"))
		}
		if len(advice) > 0 {
			sb.WriteString(".")
		}
	}

	sb.WriteString("\n")
	if !group || average < scoring.MaxScore {
		sb.WriteString(b.texts.Get("results_score_sum_up"))
	}
	sb.WriteString("\n")
	if group {
		sb.WriteString(b.texts.Format("results_score_sum_up_group", b.opts.Contacts.Number))
	} else {
		sb.WriteString(b.texts.Format("results_score_sum_up_sole", b.opts.Contacts.Number))
	}
	c.Caption = sb.String()
	return c
}

// Email собирает письмо с рекомендациями по результату одного пользователя
func (b *Builder) Email(roleName string, values []scoring.CategoryValue, average float64, recs []scoring.CategoryRecommendation) Email {
	average = scoring.Round(average, 2)
	var heading string
	if average == scoring.MaxScore {
		heading = b.texts.Get("email_perfect")
	} else {
		heading = b.texts.Format("email_score", average, scoring.Round(scoring.Percent(average), 2))
	}
	return Email{
		Heading: heading,
		Blocks:  recs,
		Content: heading + b.blocks(recs),
		Chart:   NewChart(b.texts.Format("chart_title", roleName), roleName, values),
	}
}

// GroupInput данные группы для письма руководителю
type GroupInput struct {
	CompanyID   int64
	Respondents int
	Average     float64
	// Group средние по категориям среди всех участников
	Group []scoring.CategoryValue
	// Manager баллы руководителя по категориям, nil если руководитель не проходил тест
	Manager map[string]float64
	Loss    *scoring.LossEstimate
	CSV     string
}

// GroupEmail собирает письмо по результатам группы. Если в группе есть руководитель
// и другие участники, на график добавляется сравнение руководителя с сотрудниками.
func (b *Builder) GroupEmail(in GroupInput, recs []scoring.CategoryRecommendation) GroupEmail {
	average := scoring.Round(in.Average, 2)
	heading := b.texts.Format("email_group_score", in.Respondents, average, scoring.Round(scoring.Percent(average), 2))
	if in.Loss != nil {
		heading += b.texts.Format("email_losscalc", in.Loss.Total.Round(2).String())
	}

	chart := NewChart(b.texts.Get("chart_group_title"), b.texts.Get("chart_group"), in.Group)
	if in.Manager != nil && in.Respondents > 1 {
		manager := make([]float64, 0, len(in.Group))
		employees := make([]float64, 0, len(in.Group))
		for _, v := range in.Group {
			// категорию без ответа руководителя показываем средним по группе
			m, answered := in.Manager[v.ID]
			e, ok := scoring.Reconcile(v.Value, m, in.Respondents)
			if !ok || !answered {
				e = v.Value
			}
			manager = append(manager, m)
			employees = append(employees, scoring.Round(e, 2))
		}
		chart.Name = b.texts.Get("chart_manager")
		chart.Values = manager
		chart.Comparison = &Series{Name: b.texts.Get("chart_employees"), Values: employees}
	}

	return GroupEmail{
		Email: Email{
			Heading: heading,
			Blocks:  recs,
			Content: heading + b.blocks(recs),
			Chart:   chart,
		},
		CompanyID:   in.CompanyID,
		Respondents: in.Respondents,
		CSV:         in.CSV,
	}
}

func (b *Builder) blocks(recs []scoring.CategoryRecommendation) string {
	var sb strings.Builder
	for _, r := range recs {
		sb.WriteString(b.texts.Format("aspect_percentage", r.Name, scoring.Round(r.Score, 2)))
		items := make([]string, 0, len(r.Free)+len(r.Paid))
		for _, f := range r.Free {
			items = append(items, b.opts.FreeEmoji+f)
		}
		for _, p := range r.Paid {
			items = append(items, b.opts.PaidEmoji+p)
		}
		sb.WriteString(strings.Join(items, "<br>"))
		sb.WriteString("<br><br>")
	}
	return sb.String()
}

// EmailBody подставляет содержимое и контакты в HTML шаблон письма
func EmailBody(template, content string, c Contacts) string {
	return strings.NewReplacer(
		"CONTENT", content,
		"NUMBER", c.Number,
		"LINK", c.Link,
		"MAIL", c.Mail,
	).Replace(template)
}
