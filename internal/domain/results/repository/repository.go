package repository

import (
	"context"
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier общий набор методов пула и транзакции
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB подключение к базе. Ему удовлетворяют *pgxpool.Pool и pgxmock.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ResultRepository репозиторий результатов тестирования и компаний
type ResultRepository struct {
	db DB
}

// NewResultRepository создает новый экземпляр ResultRepository
func NewResultRepository(db DB) *ResultRepository {
	return &ResultRepository{db: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id   SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS companies (
		id         BIGSERIAL PRIMARY KEY,
		created_by BIGINT NOT NULL,
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS num_questions (
		id          BIGSERIAL PRIMARY KEY,
		text        TEXT NOT NULL UNIQUE,
		category_id INTEGER NOT NULL REFERENCES categories(id)
	)`,
	`CREATE TABLE IF NOT EXISTS str_questions (
		id   BIGSERIAL PRIMARY KEY,
		text TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS role_categories (
		role        TEXT NOT NULL,
		category_id INTEGER NOT NULL REFERENCES categories(id),
		PRIMARY KEY (role, category_id)
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		id                BIGSERIAL PRIMARY KEY,
		telegram_username TEXT NOT NULL,
		company_id        BIGINT REFERENCES companies(id),
		role              TEXT NOT NULL,
		industry          TEXT,
		team_size         INTEGER CHECK (team_size > 0),
		person_cost       DOUBLE PRECISION CHECK (person_cost > 0),
		average_ti        DOUBLE PRECISION NOT NULL CHECK (average_ti >= 0 AND average_ti <= 10),
		estimated_losses  DOUBLE PRECISION,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS results_company_id_idx ON results (company_id)`,
	`CREATE INDEX IF NOT EXISTS results_username_idx ON results (telegram_username, id DESC)`,
	`CREATE TABLE IF NOT EXISTS num_answers (
		result_id   BIGINT NOT NULL REFERENCES results(id) ON DELETE CASCADE,
		question_id BIGINT NOT NULL REFERENCES num_questions(id),
		answer      SMALLINT NOT NULL CHECK (answer BETWEEN 1 AND 10),
		PRIMARY KEY (result_id, question_id)
	)`,
	`CREATE TABLE IF NOT EXISTS str_answers (
		result_id   BIGINT NOT NULL REFERENCES results(id) ON DELETE CASCADE,
		question_id BIGINT NOT NULL REFERENCES str_questions(id),
		answer      TEXT NOT NULL,
		PRIMARY KEY (result_id, question_id)
	)`,
}

// EnsureSchema создает таблицы, если их еще нет
func (r *ResultRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// SyncCatalog записывает категории и связи ролей с категориями из каталога
func (r *ResultRepository) SyncCatalog(ctx context.Context, categories []model.Category, roles []model.Role) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, c := range categories {
			if _, err := tx.Exec(ctx,
				`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, c.ID); err != nil {
				return fmt.Errorf("failed to upsert category %s: %w", c.ID, err)
			}
		}
		for _, role := range roles {
			for _, c := range role.Categories {
				if _, err := tx.Exec(ctx, `
					INSERT INTO role_categories (role, category_id)
					SELECT $1, id FROM categories WHERE name = $2
					ON CONFLICT DO NOTHING
				`, role.ID, c.ID); err != nil {
					return fmt.Errorf("failed to link role %s to category %s: %w", role.ID, c.ID, err)
				}
			}
		}
		return nil
	})
}
