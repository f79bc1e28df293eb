package pdf

import (
	"bytes"
	"testing"

	"github.com/IT-Nick/assessment-bot/internal/domain/report"
	"github.com/IT-Nick/assessment-bot/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWithoutChart(t *testing.T) {
	g := report.GroupEmail{
		Email: report.Email{
			Heading: "Team score 6.00<br>",
			Blocks: []scoring.CategoryRecommendation{
				{Name: "Trust", Score: 4, Free: []string{"book"}, Paid: []string{"training"}},
			},
		},
		CompanyID:   3,
		Respondents: 4,
	}

	doc, err := NewRenderer("", "").Render(g, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
}

func TestRenderMissingFont(t *testing.T) {
	_, err := NewRenderer("/nonexistent/font.ttf", "").Render(report.GroupEmail{}, nil)
	assert.Error(t, err)
}
