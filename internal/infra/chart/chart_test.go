package chart

import (
	"bytes"
	"testing"

	"github.com/IT-Nick/assessment-bot/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestRenderPNG(t *testing.T) {
	img, err := NewRenderer().Render(report.Chart{
		Title:  "Индекс максимума команды",
		Labels: []string{"Целеполагание", "Взаимодействие"},
		Values: []float64{7, 10},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngSignature))
}

func TestRenderComparison(t *testing.T) {
	img, err := NewRenderer().Render(report.Chart{
		Title:      "Команда",
		Name:       "Руководитель",
		Labels:     []string{"Целеполагание"},
		Values:     []float64{8},
		Comparison: &report.Series{Name: "Сотрудники", Values: []float64{5}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngSignature))
}

func TestRenderEmpty(t *testing.T) {
	_, err := NewRenderer().Render(report.Chart{Title: "Пусто"})
	assert.Error(t, err)
}
