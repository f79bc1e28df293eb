package repository

import (
	"context"
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/jackc/pgx/v5"
)

const categoryAveragesQuery = `
	SELECT c.name, AVG(na.answer)::float8
	FROM num_answers na
	JOIN num_questions nq ON nq.id = na.question_id
	JOIN categories c ON c.id = nq.category_id
	JOIN results r ON r.id = na.result_id
`

// CategoryAverages средний ответ по каждой категории среди всех результатов.
// Если role не nil, учитываются только результаты этой роли.
func (r *ResultRepository) CategoryAverages(ctx context.Context, role *string) (map[string]float64, error) {
	rows, err := r.db.Query(ctx, categoryAveragesQuery+`
		WHERE $1::text IS NULL OR r.role = $1
		GROUP BY c.id, c.name
	`, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query category averages: %w", err)
	}
	return collectAverages(rows)
}

// ResultCategoryAverages средний ответ по категориям в одном результате
func (r *ResultRepository) ResultCategoryAverages(ctx context.Context, resultID int64) (map[string]float64, error) {
	rows, err := r.db.Query(ctx, categoryAveragesQuery+`
		WHERE r.id = $1
		GROUP BY c.id, c.name
	`, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to query result averages: %w", err)
	}
	return collectAverages(rows)
}

// CompanyCategoryAverages средний ответ по категориям внутри компании, с необязательным фильтром роли
func (r *ResultRepository) CompanyCategoryAverages(ctx context.Context, companyID int64, role *string) (map[string]float64, error) {
	rows, err := r.db.Query(ctx, categoryAveragesQuery+`
		WHERE r.company_id = $1 AND ($2::text IS NULL OR r.role = $2)
		GROUP BY c.id, c.name
	`, companyID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query company averages: %w", err)
	}
	return collectAverages(rows)
}

func collectAverages(rows pgx.Rows) (map[string]float64, error) {
	defer rows.Close()

	averages := make(map[string]float64)
	for rows.Next() {
		var (
			name string
			avg  float64
		)
		if err := rows.Scan(&name, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan category average: %w", err)
		}
		averages[name] = avg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return averages, nil
}

// Stats общая статистика прохождений для администраторов
func (r *ResultRepository) Stats(ctx context.Context, managerRole string) (model.Stats, error) {
	var (
		st          model.Stats
		inGroups    int
		openAnswers int
	)
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT telegram_username),
			COUNT(DISTINCT company_id),
			COUNT(company_id),
			COUNT(*) FILTER (WHERE role = $1),
			COUNT(*) FILTER (WHERE role <> $1),
			(SELECT COUNT(*) FROM str_answers),
			AVG(estimated_losses)::float8,
			(AVG(average_ti) FILTER (WHERE estimated_losses IS NOT NULL))::float8
		FROM results
	`, managerRole).Scan(&st.TotalResults, &st.UniqueUsers, &st.Groups, &inGroups,
		&st.Managers, &st.Employees, &openAnswers, &st.AvgLosses, &st.AvgAverageWithPC)
	if err != nil {
		return st, fmt.Errorf("failed to get stats: %w", err)
	}

	if st.Groups > 0 {
		st.AvgGroupSize = float64(inGroups) / float64(st.Groups)
	}
	if st.TotalResults > 0 {
		st.OpenAnswerRate = float64(openAnswers) / float64(st.TotalResults) * 100
	}
	return st, nil
}

// IndustryCounts число прохождений по индустриям. Участникам группы без
// собственной индустрии засчитывается индустрия, указанная в их компании.
func (r *ResultRepository) IndustryCounts(ctx context.Context) ([]model.IndustryCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(r.industry, g.industry, '-') AS industry, COUNT(*)
		FROM results r
		LEFT JOIN LATERAL (
			SELECT m.industry FROM results m
			WHERE m.company_id = r.company_id AND m.industry IS NOT NULL
			ORDER BY m.id
			LIMIT 1
		) g ON TRUE
		GROUP BY 1
		ORDER BY 2 DESC, 1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query industries: %w", err)
	}
	defer rows.Close()

	var counts []model.IndustryCount
	for rows.Next() {
		var c model.IndustryCount
		if err := rows.Scan(&c.Industry, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan industry: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return counts, nil
}
