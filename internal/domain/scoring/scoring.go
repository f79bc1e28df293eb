// Package scoring считает средние по тесту, потери и сверку группы с руководителем.
package scoring

import (
	"math"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
)

// MaxScore верхняя граница шкалы оценки
const MaxScore = 10.0

// QuestionCounter сообщает число вопросов категории для роли
type QuestionCounter interface {
	QuestionCount(roleID, categoryID string) int
}

// Average общий средний балл сессии по шкале 0–10.
//
// В режиме CompletionWeighted сумма баллов делится на число отвеченных и еще
// не отвеченных вопросов, так что пропущенные вопросы считаются нулями.
// В режиме CategoryMean берется среднее значений по категориям.
func Average(s *model.Session) float64 {
	var avg float64
	switch s.Mode {
	case model.CategoryMean:
		if len(s.Scores) == 0 {
			return 0
		}
		avg = sum(s.Scores) / float64(len(s.Scores))
	default:
		total := len(s.Answers) + len(s.Pending)
		if s.Current != nil && s.State == model.StateQuestion {
			total++
		}
		if total == 0 {
			return 0
		}
		avg = sum(s.Scores) / float64(total)
	}
	return clamp(avg)
}

// CategoryScore отображаемый балл категории.
// Для CategoryMean накопленное значение уже является средним.
func CategoryScore(s *model.Session, questions QuestionCounter, categoryID string) float64 {
	score := s.Scores[categoryID]
	if s.Mode == model.CategoryMean {
		return clamp(score)
	}
	n := questions.QuestionCount(s.RoleID, categoryID)
	if n == 0 {
		return 0
	}
	return clamp(score / float64(n))
}

// Reconcile вычисляет среднее сотрудников без руководителя по среднему всей группы.
// groupAvg посчитан по n участникам, включая руководителя. При n <= 1 сверка невозможна.
func Reconcile(groupAvg, managerScore float64, n int) (float64, bool) {
	if n <= 1 {
		return 0, false
	}
	return (groupAvg*float64(n) - managerScore) / float64(n-1), true
}

// Round округляет значение до указанного числа знаков после запятой
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Percent доля потерянного потенциала в процентах
func Percent(average float64) float64 {
	return 100 - average*10
}

func sum(scores map[string]float64) float64 {
	var total float64
	for _, v := range scores {
		total += v
	}
	return total
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > MaxScore:
		return MaxScore
	}
	return v
}
