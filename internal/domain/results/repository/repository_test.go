package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *ResultRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewResultRepository(mock)
}

func TestEnsureSchema(t *testing.T) {
	mock, repo := newMock(t)
	for range schema {
		mock.ExpectExec("CREATE").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	}

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncCatalog(t *testing.T) {
	mock, repo := newMock(t)
	categories := []model.Category{{ID: "Thrust"}, {ID: "Trust"}}
	roles := []model.Role{
		{ID: "Manager", Categories: []model.RoleCategory{{ID: "Thrust"}, {ID: "Trust"}}},
		{ID: "Employee", Categories: []model.RoleCategory{{ID: "Trust"}}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO categories").WithArgs("Thrust").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO categories").WithArgs("Trust").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO role_categories").WithArgs("Manager", "Thrust").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO role_categories").WithArgs("Manager", "Trust").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO role_categories").WithArgs("Employee", "Trust").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SyncCatalog(context.Background(), categories, roles))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateQuestionIsIdempotent(t *testing.T) {
	mock, repo := newMock(t)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery("INSERT INTO num_questions .* ON CONFLICT \\(text\\) DO UPDATE").
			WithArgs("Ставите ли вы цели?", "Thrust").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	}

	ctx := context.Background()
	first, err := repo.FindOrCreateQuestion(ctx, mock, "Ставите ли вы цели?", "Thrust")
	require.NoError(t, err)
	second, err := repo.FindOrCreateQuestion(ctx, mock, "Ставите ли вы цели?", "Thrust")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateOpenQuestionFallsBackToSelect(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery("INSERT INTO str_questions").
		WithArgs("Что улучшить?").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT id FROM str_questions").
		WithArgs("Что улучшить?").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, err := repo.FindOrCreateOpenQuestion(context.Background(), mock, "Что улучшить?")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func soloSession() *model.Session {
	s := model.NewSession(1, "alice", nil, time.Time{})
	s.RoleID = "Manager"
	s.Industry = ptr("IT")
	s.TeamSize = ptr(10)
	s.PersonCost = ptr("1000")
	s.Answers = []model.Answer{
		{Question: "q1", Rating: 6, Category: "Thrust"},
		{Question: "q2", Rating: 8, Category: "Thrust"},
	}
	s.AddScore("Thrust", 6)
	s.AddScore("Thrust", 8)
	s.OpenAnswers = []model.OpenAnswer{{Question: "open", Text: "Больше встреч"}}
	return s
}

func TestSaveResult(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO results").
		WithArgs("alice", (*int64)(nil), "Manager", ptr("IT"), ptr(10), ptr(1000.0), 7.0, ptr(3000.0)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectQuery("INSERT INTO num_questions").WithArgs("q1", "Thrust").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec("INSERT INTO num_answers").WithArgs(int64(42), int64(1), 6).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("INSERT INTO num_questions").WithArgs("q2", "Thrust").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectExec("INSERT INTO num_answers").WithArgs(int64(42), int64(2), 8).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("INSERT INTO str_questions").WithArgs("open").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectExec("INSERT INTO str_answers").WithArgs(int64(42), int64(5), "Больше встреч").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	id, err := repo.SaveResult(context.Background(), soloSession(), "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveResultWithoutCostStoresNullLoss(t *testing.T) {
	mock, repo := newMock(t)
	s := soloSession()
	s.PersonCost = nil
	s.Answers = s.Answers[:1]
	s.OpenAnswers = nil
	s.Scores["Thrust"] = 7

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO results").
		WithArgs("alice", ptr(int64(9)), "Manager", ptr("IT"), ptr(10), (*float64)(nil), 7.0, (*float64)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO num_questions").WithArgs("q1", "Thrust").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec("INSERT INTO num_answers").WithArgs(int64(1), int64(1), 6).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	_, err := repo.SaveResult(context.Background(), s, "alice", ptr(int64(9)))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveResultRollsBackOnError(t *testing.T) {
	mock, repo := newMock(t)
	dbErr := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO results").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectQuery("INSERT INTO num_questions").WillReturnError(dbErr)
	mock.ExpectRollback()

	_, err := repo.SaveResult(context.Background(), soloSession(), "alice", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryAverages(t *testing.T) {
	mock, repo := newMock(t)
	role := ptr("Manager")
	mock.ExpectQuery("SELECT c.name, AVG").
		WithArgs(role).
		WillReturnRows(pgxmock.NewRows([]string{"name", "avg"}).
			AddRow("Thrust", 7.0).
			AddRow("Trust", 5.5))

	averages, err := repo.CategoryAverages(context.Background(), role)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Thrust": 7, "Trust": 5.5}, averages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyIsActive(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery("SELECT is_active FROM companies").WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"is_active"}).AddRow(true))
	mock.ExpectQuery("SELECT is_active FROM companies").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"is_active"}))

	ctx := context.Background()
	active, err := repo.CompanyIsActive(ctx, 1)
	require.NoError(t, err)
	assert.True(t, active)

	active, err = repo.CompanyIsActive(ctx, 2)
	require.NoError(t, err)
	assert.False(t, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAndDeactivateCompanies(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery("INSERT INTO companies").WithArgs(int64(100)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectExec("UPDATE companies SET is_active = FALSE").WithArgs(int64(100)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	ctx := context.Background()
	id, err := repo.CreateCompany(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	n, err := repo.DeactivateCompanies(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestResultMissing(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery("FROM results WHERE telegram_username").WithArgs("nobody").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	res, err := repo.LatestResult(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStats(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery("COUNT\\(DISTINCT telegram_username\\)").WithArgs("Manager").
		WillReturnRows(pgxmock.NewRows([]string{
			"total", "unique", "groups", "in_groups", "managers", "employees", "open", "losses", "avg",
		}).AddRow(10, 8, 2, 6, 4, 6, 5, ptr(1500.0), ptr(6.5)))

	st, err := repo.Stats(context.Background(), "Manager")
	require.NoError(t, err)
	assert.Equal(t, 10, st.TotalResults)
	assert.Equal(t, 2, st.Groups)
	assert.InDelta(t, 3.0, st.AvgGroupSize, 1e-9)
	assert.InDelta(t, 50.0, st.OpenAnswerRate, 1e-9)
	require.NotNil(t, st.AvgLosses)
	assert.InDelta(t, 1500.0, *st.AvgLosses, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}
