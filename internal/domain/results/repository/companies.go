package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/jackc/pgx/v5"
)

// CreateCompany создает активную компанию и возвращает ее id
func (r *ResultRepository) CreateCompany(ctx context.Context, creatorID int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO companies (created_by) VALUES ($1) RETURNING id`, creatorID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create company: %w", err)
	}
	return id, nil
}

// DeactivateCompanies останавливает все компании пользователя. Возвращает число затронутых компаний.
func (r *ResultRepository) DeactivateCompanies(ctx context.Context, creatorID int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE companies SET is_active = FALSE WHERE created_by = $1 AND is_active`, creatorID)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate companies: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CompanyIsActive проверяет, что компания существует и принимает участников
func (r *ResultRepository) CompanyIsActive(ctx context.Context, companyID int64) (bool, error) {
	var active bool
	err := r.db.QueryRow(ctx, `SELECT is_active FROM companies WHERE id = $1`, companyID).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check company: %w", err)
	}
	return active, nil
}

// CompaniesByCreator возвращает компании, созданные пользователем
func (r *ResultRepository) CompaniesByCreator(ctx context.Context, creatorID int64) ([]model.Company, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, created_by, is_active, created_at
		FROM companies
		WHERE created_by = $1
		ORDER BY id
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.CreatedBy, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return companies, nil
}

// CompanySummary число участников компании и их средний индекс
func (r *ResultRepository) CompanySummary(ctx context.Context, companyID int64) (model.CompanySummary, error) {
	summary := model.CompanySummary{CompanyID: companyID}
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(average_ti), 0)::float8
		FROM results
		WHERE company_id = $1
	`, companyID).Scan(&summary.Respondents, &summary.Average)
	if err != nil {
		return summary, fmt.Errorf("failed to get company summary: %w", err)
	}
	return summary, nil
}
