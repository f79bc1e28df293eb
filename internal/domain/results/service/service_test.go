package service

import (
	"context"
	"testing"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/results/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (pgxmock.PgxPoolIface, *ResultService) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewResultService(repository.NewResultRepository(mock))
}

func companyRows(ids ...int64) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "created_by", "is_active", "created_at"})
	for _, id := range ids {
		rows.AddRow(id, int64(100), true, time.Time{})
	}
	return rows
}

func TestLatestCompanyWithResultsWithoutCompanies(t *testing.T) {
	mock, svc := newService(t)
	mock.ExpectQuery("FROM companies").WithArgs(int64(100)).WillReturnRows(companyRows())

	_, ok, err := svc.LatestCompanyWithResults(context.Background(), 100)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestCompanyWithResultsPicksNewestNonEmpty(t *testing.T) {
	mock, svc := newService(t)
	mock.ExpectQuery("FROM companies").WithArgs(int64(100)).WillReturnRows(companyRows(1, 2))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "avg"}).AddRow(0, 0.0))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "avg"}).AddRow(3, 6.5))

	summary, ok, err := svc.LatestCompanyWithResults(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), summary.CompanyID)
	assert.Equal(t, 3, summary.Respondents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyReportsSkipsEmptyCompanies(t *testing.T) {
	mock, svc := newService(t)
	mock.ExpectQuery("FROM companies").WithArgs(int64(100)).WillReturnRows(companyRows(1, 2))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "avg"}).AddRow(0, 0.0))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "avg"}).AddRow(1, 8.0))
	mock.ExpectQuery("SELECT nq.text, c.name").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"text", "name"}).AddRow("q1", "Thrust"))
	mock.ExpectQuery("SELECT sq.text").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"text"}))
	mock.ExpectQuery("SELECT id, telegram_username").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "u", "r", "i", "t", "p", "a"}).
			AddRow(int64(5), "bob", "Employee", (*string)(nil), (*int)(nil), (*float64)(nil), 8.0))
	mock.ExpectQuery("SELECT r.id, c.name").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "avg"}).AddRow(int64(5), "Thrust", 8.0))
	mock.ExpectQuery("SELECT r.id, nq.text").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "text", "answer"}).AddRow(int64(5), "q1", "8"))

	reports, err := svc.CompanyReports(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(2), reports[0].Summary.CompanyID)
	assert.Equal(t, "username,role,industry,team_size,person_cost,average_ti,ti_Thrust,q1\n"+
		"bob,Employee,-,0,0,8,8,8\n", reports[0].CSV)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasCompanies(t *testing.T) {
	mock, svc := newService(t)
	mock.ExpectQuery("FROM companies").WithArgs(int64(100)).WillReturnRows(companyRows())
	mock.ExpectQuery("FROM companies").WithArgs(int64(100)).WillReturnRows(companyRows(4))

	has, err := svc.HasCompanies(context.Background(), 100)
	require.NoError(t, err)
	assert.False(t, has)

	has, err = svc.HasCompanies(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, has)
	assert.NoError(t, mock.ExpectationsWereMet())
}
