package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
manager_role: Manager
categories:
  - {id: Thrust, name: Целеполагание}
  - {id: Trust, name: Взаимодействие}
roles:
  - id: Manager
    name: Руководитель
    categories:
      - id: Thrust
        questions: ["Цели понятны команде", "Цели измеримы"]
      - id: Trust
        questions: ["Команда доверяет друг другу"]
  - id: Employee
    name: Сотрудник
    categories:
      - id: Thrust
        questions: ["Я понимаю цели"]
open_questions: ["Что мешает команде?"]
industries: [IT, Retail]
recommendations:
  strong:
    Thrust: {free: [a], paid: [b]}
  weak:
    Thrust: {free: [c, d], paid: [e, f, g]}
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"Руководитель", "Сотрудник"}, c.RoleNames())
	assert.True(t, c.IsManager("Manager"))
	assert.False(t, c.IsManager("Employee"))

	role, ok := c.RoleByName("Сотрудник")
	require.True(t, ok)
	assert.Equal(t, "Employee", role.ID)
	assert.Equal(t, []string{"Что мешает команде?"}, role.OpenQuestions)
	assert.Equal(t, "Целеполагание", role.Categories[0].Name)

	assert.Equal(t, 2, c.QuestionCount("Manager", "Thrust"))
	assert.Equal(t, 1, c.QuestionCount("Employee", "Thrust"))
	assert.Equal(t, 0, c.QuestionCount("Employee", "Trust"))
	assert.Equal(t, 0, c.QuestionCount("Nobody", "Trust"))

	assert.Len(t, c.Pairs("Manager"), 3)
	assert.Equal(t, "Thrust", c.Pairs("Manager")[0].Category)
	assert.Equal(t, []string{"IT", "Retail"}, c.Industries())
	assert.Equal(t, []string{"e", "f", "g"}, c.Recommendations(TierWeak, "Thrust").Paid)
}

func TestCategoryLookupIsBidirectional(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	for _, cat := range c.Categories() {
		id, ok := c.CategoryID(c.CategoryName(cat.ID))
		require.True(t, ok)
		assert.Equal(t, cat.ID, id)
	}
	assert.Equal(t, "Unknown", c.CategoryName("Unknown"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "roles: [\n"},
		{"no roles", "categories: [{id: A, name: a}]"},
		{"unknown category", "roles: [{id: R, name: r, categories: [{id: X, questions: [q]}]}]"},
		{"unknown manager", "manager_role: Boss\nroles: [{id: R, name: r}]"},
		{"duplicate role", "roles: [{id: R, name: r}, {id: R, name: r2}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Roles(), 2)
}
