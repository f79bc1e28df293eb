package scoring

import (
	"math/rand"

	"github.com/IT-Nick/assessment-bot/internal/domain/catalog"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
)

// Tier уровень рекомендаций для балла категории
type Tier int

const (
	TierWeak Tier = iota
	TierModerate
	TierStrong
	TierPerfect
)

// TierFor выбирает уровень по баллу категории на шкале 0–10
func TierFor(score float64) Tier {
	switch {
	case score == MaxScore:
		return TierPerfect
	case score > 7.5:
		return TierStrong
	case score > 5:
		return TierModerate
	default:
		return TierWeak
	}
}

// RecommendationSource источник мероприятий по уровню и категории
type RecommendationSource interface {
	Recommendations(tier, categoryID string) model.Recommendation
}

// CategoryRecommendation мероприятия, подобранные для одной категории
type CategoryRecommendation struct {
	CategoryID string
	Name       string
	Score      float64
	Tier       Tier
	Free       []string
	Paid       []string
}

// CategoryValue балл категории в порядке отображения
type CategoryValue struct {
	ID    string
	Name  string
	Value float64
}

// Recommend подбирает мероприятия для каждой категории.
// Категории с баллом ровно 10 пропускаются.
func Recommend(scores []CategoryValue, src RecommendationSource, rnd *rand.Rand) []CategoryRecommendation {
	var out []CategoryRecommendation
	for _, cv := range scores {
		tier := TierFor(cv.Value)
		rec := CategoryRecommendation{CategoryID: cv.ID, Name: cv.Name, Score: cv.Value, Tier: tier}
		switch tier {
		case TierPerfect:
			continue
		case TierStrong:
			r := src.Recommendations(catalog.TierStrong, cv.ID)
			rec.Free, rec.Paid = r.Free, r.Paid
		case TierModerate:
			r := src.Recommendations(catalog.TierWeak, cv.ID)
			rec.Free = sample(rnd, r.Free, 1)
			rec.Paid = sample(rnd, r.Paid, 2)
		default:
			r := src.Recommendations(catalog.TierWeak, cv.ID)
			rec.Free, rec.Paid = r.Free, r.Paid
		}
		out = append(out, rec)
	}
	return out
}

// sample выбирает n случайных элементов без повторений
func sample(rnd *rand.Rand, items []string, n int) []string {
	cpy := make([]string, len(items))
	copy(cpy, items)
	rnd.Shuffle(len(cpy), func(i, j int) {
		cpy[i], cpy[j] = cpy[j], cpy[i]
	})
	if n > len(cpy) {
		n = len(cpy)
	}
	return cpy[:n]
}
