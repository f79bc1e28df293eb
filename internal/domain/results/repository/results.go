package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/IT-Nick/assessment-bot/internal/domain/scoring"
	"github.com/jackc/pgx/v5"
)

// FindOrCreateQuestion возвращает id числового вопроса, создавая его при необходимости.
// Категория вопроса перезаписывается той, под которой он был задан последним.
func (r *ResultRepository) FindOrCreateQuestion(ctx context.Context, q Querier, text, categoryID string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		WITH category AS (
			INSERT INTO categories (name) VALUES ($2)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		)
		INSERT INTO num_questions (text, category_id)
		SELECT $1, id FROM category
		ON CONFLICT (text) DO UPDATE SET category_id = EXCLUDED.category_id
		RETURNING id
	`, text, categoryID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert question: %w", err)
	}
	return id, nil
}

// FindOrCreateOpenQuestion возвращает id открытого вопроса, создавая его при необходимости
func (r *ResultRepository) FindOrCreateOpenQuestion(ctx context.Context, q Querier, text string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO str_questions (text) VALUES ($1)
		ON CONFLICT (text) DO NOTHING
		RETURNING id
	`, text).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to insert open question: %w", err)
	}

	if err := q.QueryRow(ctx, `SELECT id FROM str_questions WHERE text = $1`, text).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get open question: %w", err)
	}
	return id, nil
}

// SaveResult сохраняет завершенную сессию со всеми ответами в одной транзакции
func (r *ResultRepository) SaveResult(ctx context.Context, s *model.Session, username string, companyID *int64) (int64, error) {
	average := scoring.Average(s)

	var personCost, losses *float64
	if s.PersonCost != nil {
		if cost, err := scoring.ParseCost(*s.PersonCost); err == nil {
			v := cost.InexactFloat64()
			personCost = &v
		}
	}
	if est, ok := scoring.Loss(average, s.PersonCost, s.TeamSize); ok {
		v := est.Total.InexactFloat64()
		losses = &v
	}

	var resultID int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO results (
				telegram_username, company_id, role, industry,
				team_size, person_cost, average_ti, estimated_losses
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, username, companyID, s.RoleID, s.Industry, s.TeamSize, personCost, average, losses).Scan(&resultID)
		if err != nil {
			return fmt.Errorf("failed to insert result: %w", err)
		}

		for _, a := range s.Answers {
			questionID, err := r.FindOrCreateQuestion(ctx, tx, a.Question, a.Category)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO num_answers (result_id, question_id, answer) VALUES ($1, $2, $3)
				ON CONFLICT (result_id, question_id) DO UPDATE SET answer = EXCLUDED.answer
			`, resultID, questionID, a.Rating); err != nil {
				return fmt.Errorf("failed to insert answer: %w", err)
			}
		}

		for _, a := range s.OpenAnswers {
			questionID, err := r.FindOrCreateOpenQuestion(ctx, tx, a.Question)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO str_answers (result_id, question_id, answer) VALUES ($1, $2, $3)
				ON CONFLICT (result_id, question_id) DO UPDATE SET answer = EXCLUDED.answer
			`, resultID, questionID, a.Text); err != nil {
				return fmt.Errorf("failed to insert open answer: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return resultID, nil
}

const resultColumns = `id, telegram_username, company_id, role, industry, team_size,
	person_cost, average_ti, estimated_losses, created_at`

func scanResult(row pgx.Row) (*model.Result, error) {
	var res model.Result
	err := row.Scan(&res.ID, &res.Username, &res.CompanyID, &res.Role, &res.Industry, &res.TeamSize,
		&res.PersonCost, &res.Average, &res.EstimatedLosses, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// LatestResult последний результат пользователя или nil, если тест не проходился
func (r *ResultRepository) LatestResult(ctx context.Context, username string) (*model.Result, error) {
	res, err := scanResult(r.db.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM results WHERE telegram_username = $1 ORDER BY id DESC LIMIT 1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest result: %w", err)
	}
	return res, nil
}

// CompanyManagerResult последний результат руководителя в компании или nil
func (r *ResultRepository) CompanyManagerResult(ctx context.Context, companyID int64, managerRole string) (*model.Result, error) {
	res, err := scanResult(r.db.QueryRow(ctx, `SELECT `+resultColumns+` FROM results
		WHERE company_id = $1 AND role = $2 ORDER BY id DESC LIMIT 1`, companyID, managerRole))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get manager result: %w", err)
	}
	return res, nil
}
