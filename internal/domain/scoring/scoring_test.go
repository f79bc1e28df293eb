package scoring

import (
	"math/rand"
	"testing"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counts map[string]int

func (c counts) QuestionCount(_, categoryID string) int {
	return c[categoryID]
}

type recs map[string]map[string]model.Recommendation

func (r recs) Recommendations(tier, categoryID string) model.Recommendation {
	return r[tier][categoryID]
}

func completed(answers ...model.Answer) *model.Session {
	s := model.NewSession(1, "user", nil, timeZero)
	for _, a := range answers {
		s.Answers = append(s.Answers, a)
		s.AddScore(a.Category, a.Rating)
	}
	return s
}

func TestAverageCompletionWeighted(t *testing.T) {
	s := completed(
		model.Answer{Question: "q1", Rating: 8, Category: "A"},
		model.Answer{Question: "q2", Rating: 6, Category: "A"},
		model.Answer{Question: "q3", Rating: 10, Category: "B"},
	)
	// сумма баллов по категориям / сумма вопросов
	assert.InDelta(t, 8.0, Average(s), 1e-9)

	s.Pending = []model.PendingQuestion{{Category: "B", Prompt: "q4"}}
	assert.InDelta(t, 6.0, Average(s), 1e-9, "pending questions count as zero")
}

func TestAverageEmptySession(t *testing.T) {
	s := model.NewSession(1, "user", nil, timeZero)
	assert.Zero(t, Average(s))

	s.Mode = model.CategoryMean
	assert.Zero(t, Average(s))
}

func TestAverageCategoryMean(t *testing.T) {
	s := model.NewSession(1, "user", nil, timeZero)
	s.Mode = model.CategoryMean
	s.SetScore("A", 4.5)
	s.SetScore("B", 7.5)
	assert.InDelta(t, 6.0, Average(s), 1e-9)
}

func TestAverageStaysInRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		s := model.NewSession(1, "user", nil, timeZero)
		answered := rnd.Intn(20)
		for j := 0; j < answered; j++ {
			s.Answers = append(s.Answers, model.Answer{Rating: 1 + rnd.Intn(10), Category: "A"})
			s.AddScore("A", s.Answers[j].Rating)
		}
		for j := rnd.Intn(5); j > 0; j-- {
			s.Pending = append(s.Pending, model.PendingQuestion{Category: "A"})
		}
		avg := Average(s)
		assert.GreaterOrEqual(t, avg, 0.0)
		assert.LessOrEqual(t, avg, 10.0)

		s.Mode = model.CategoryMean
		avg = Average(s)
		assert.GreaterOrEqual(t, avg, 0.0)
		assert.LessOrEqual(t, avg, 10.0)
	}
}

func TestCategoryScore(t *testing.T) {
	s := completed(
		model.Answer{Question: "q1", Rating: 8, Category: "A"},
		model.Answer{Question: "q2", Rating: 6, Category: "A"},
	)
	c := counts{"A": 2}
	assert.InDelta(t, 7.0, CategoryScore(s, c, "A"), 1e-9)
	assert.Zero(t, CategoryScore(s, c, "B"), "no questions in category")

	s.Mode = model.CategoryMean
	s.SetScore("A", 5.5)
	assert.InDelta(t, 5.5, CategoryScore(s, c, "A"), 1e-9)
}

func TestFullSessionAverageEqualsTotalOverQuestions(t *testing.T) {
	c := counts{"A": 3, "B": 2}
	s := completed(
		model.Answer{Question: "a1", Rating: 3, Category: "A"},
		model.Answer{Question: "a2", Rating: 9, Category: "A"},
		model.Answer{Question: "a3", Rating: 6, Category: "A"},
		model.Answer{Question: "b1", Rating: 10, Category: "B"},
		model.Answer{Question: "b2", Rating: 2, Category: "B"},
	)
	total := s.Scores["A"] + s.Scores["B"]
	assert.InDelta(t, total/float64(c["A"]+c["B"]), Average(s), 1e-9)
}

func TestReconcile(t *testing.T) {
	v, ok := Reconcile(6.0, 8.0, 5)
	require.True(t, ok)
	assert.InDelta(t, 5.5, v, 1e-9)

	_, ok = Reconcile(6.0, 6.0, 1)
	assert.False(t, ok)
	_, ok = Reconcile(6.0, 6.0, 0)
	assert.False(t, ok)
}

func TestLoss(t *testing.T) {
	cost := "1000"
	size := 10
	est, ok := Loss(7.0, &cost, &size)
	require.True(t, ok)
	assert.Equal(t, "300", est.PerPerson.String())
	assert.Equal(t, "3000", est.Total.String())
}

func TestLossAbsent(t *testing.T) {
	size := 3
	for _, raw := range []string{"", "abc", "0", "-100"} {
		cost := raw
		_, ok := Loss(5, &cost, &size)
		assert.False(t, ok, raw)
	}
	_, ok := Loss(5, nil, &size)
	assert.False(t, ok)
}

func TestParseCost(t *testing.T) {
	d, err := ParseCost(" 150 000,50 ")
	require.NoError(t, err)
	assert.Equal(t, "150000.5", d.String())

	_, err = ParseCost("0")
	assert.ErrorIs(t, err, ErrNotPositive)

	for _, raw := range []string{"1e-400", "1e400"} {
		_, err = ParseCost(raw)
		assert.ErrorIs(t, err, ErrOutOfRange, raw)
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{10, TierPerfect},
		{9.9, TierStrong},
		{7.6, TierStrong},
		{7.5, TierModerate},
		{5.1, TierModerate},
		{5, TierWeak},
		{0, TierWeak},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.score), tt.score)
	}
}

func TestRecommend(t *testing.T) {
	src := recs{
		"strong": {"A": {Free: []string{"sf1", "sf2"}, Paid: []string{"sp1"}}},
		"weak": {
			"A": {Free: []string{"wf1", "wf2"}, Paid: []string{"wp1", "wp2", "wp3"}},
			"B": {Free: []string{"wf1", "wf2", "wf3"}, Paid: []string{"wp1", "wp2", "wp3"}},
			"C": {Free: []string{"cf"}, Paid: []string{"cp"}},
		},
	}
	scores := []CategoryValue{
		{ID: "A", Value: 8},
		{ID: "B", Value: 6},
		{ID: "C", Value: 3},
		{ID: "D", Value: 10},
	}
	out := Recommend(scores, src, rand.New(rand.NewSource(1)))
	require.Len(t, out, 3, "perfect category is skipped")

	assert.Equal(t, TierStrong, out[0].Tier)
	assert.Equal(t, []string{"sf1", "sf2"}, out[0].Free)
	assert.Equal(t, []string{"sp1"}, out[0].Paid)

	assert.Equal(t, TierModerate, out[1].Tier)
	assert.Len(t, out[1].Free, 1)
	require.Len(t, out[1].Paid, 2)
	assert.NotEqual(t, out[1].Paid[0], out[1].Paid[1])

	assert.Equal(t, TierWeak, out[2].Tier)
	assert.Equal(t, []string{"cf"}, out[2].Free)
}
