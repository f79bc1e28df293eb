package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
)

type exportQuestion struct {
	Text     string
	Category string
}

type exportRow struct {
	ID         int64
	Username   string
	Role       string
	Industry   *string
	TeamSize   *int
	PersonCost *float64
	Average    float64
}

// exportData все, что нужно для построения выгрузки компании
type exportData struct {
	Questions     []exportQuestion
	OpenQuestions []string
	Rows          []exportRow
	// Scores средний ответ по категориям для каждого результата
	Scores map[int64]map[string]float64
	// Answers ответы результата по тексту вопроса
	Answers map[int64]map[string]string
}

// CompanyResultsExport строит CSV со всеми результатами компании.
// Колонки категорий и вопросов определяются по фактическим ответам участников.
func (r *ResultRepository) CompanyResultsExport(ctx context.Context, companyID int64) (string, error) {
	data := exportData{
		Scores:  make(map[int64]map[string]float64),
		Answers: make(map[int64]map[string]string),
	}

	rows, err := r.db.Query(ctx, `
		SELECT nq.text, c.name
		FROM num_questions nq
		JOIN categories c ON c.id = nq.category_id
		WHERE nq.id IN (
			SELECT na.question_id FROM num_answers na
			JOIN results r ON r.id = na.result_id
			WHERE r.company_id = $1
		)
		ORDER BY nq.id
	`, companyID)
	if err != nil {
		return "", fmt.Errorf("failed to query export questions: %w", err)
	}
	for rows.Next() {
		var q exportQuestion
		if err := rows.Scan(&q.Text, &q.Category); err != nil {
			rows.Close()
			return "", fmt.Errorf("failed to scan export question: %w", err)
		}
		data.Questions = append(data.Questions, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate over rows: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT sq.text
		FROM str_questions sq
		WHERE sq.id IN (
			SELECT sa.question_id FROM str_answers sa
			JOIN results r ON r.id = sa.result_id
			WHERE r.company_id = $1
		)
		ORDER BY sq.id
	`, companyID)
	if err != nil {
		return "", fmt.Errorf("failed to query export open questions: %w", err)
	}
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			rows.Close()
			return "", fmt.Errorf("failed to scan export open question: %w", err)
		}
		data.OpenQuestions = append(data.OpenQuestions, text)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate over rows: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, telegram_username, role, industry, team_size, person_cost, average_ti
		FROM results
		WHERE company_id = $1
		ORDER BY id
	`, companyID)
	if err != nil {
		return "", fmt.Errorf("failed to query export results: %w", err)
	}
	for rows.Next() {
		var row exportRow
		if err := rows.Scan(&row.ID, &row.Username, &row.Role, &row.Industry,
			&row.TeamSize, &row.PersonCost, &row.Average); err != nil {
			rows.Close()
			return "", fmt.Errorf("failed to scan export result: %w", err)
		}
		data.Rows = append(data.Rows, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate over rows: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT r.id, c.name, AVG(na.answer)::float8
		FROM results r
		JOIN num_answers na ON na.result_id = r.id
		JOIN num_questions nq ON nq.id = na.question_id
		JOIN categories c ON c.id = nq.category_id
		WHERE r.company_id = $1
		GROUP BY r.id, c.name
	`, companyID)
	if err != nil {
		return "", fmt.Errorf("failed to query export scores: %w", err)
	}
	for rows.Next() {
		var (
			id    int64
			name  string
			score float64
		)
		if err := rows.Scan(&id, &name, &score); err != nil {
			rows.Close()
			return "", fmt.Errorf("failed to scan export score: %w", err)
		}
		if data.Scores[id] == nil {
			data.Scores[id] = make(map[string]float64)
		}
		data.Scores[id][name] = score
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate over rows: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT r.id, nq.text, na.answer::text
		FROM results r
		JOIN num_answers na ON na.result_id = r.id
		JOIN num_questions nq ON nq.id = na.question_id
		WHERE r.company_id = $1
		UNION ALL
		SELECT r.id, sq.text, sa.answer
		FROM results r
		JOIN str_answers sa ON sa.result_id = r.id
		JOIN str_questions sq ON sq.id = sa.question_id
		WHERE r.company_id = $1
	`, companyID)
	if err != nil {
		return "", fmt.Errorf("failed to query export answers: %w", err)
	}
	for rows.Next() {
		var (
			id           int64
			text, answer string
		)
		if err := rows.Scan(&id, &text, &answer); err != nil {
			rows.Close()
			return "", fmt.Errorf("failed to scan export answer: %w", err)
		}
		if data.Answers[id] == nil {
			data.Answers[id] = make(map[string]string)
		}
		data.Answers[id][text] = answer
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate over rows: %w", err)
	}

	return buildExport(data)
}

// buildExport формирует CSV (RFC 4180) из собранных данных
func buildExport(data exportData) (string, error) {
	var categories []string
	seen := make(map[string]bool)
	for _, q := range data.Questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			categories = append(categories, q.Category)
		}
	}

	header := []string{"username", "role", "industry", "team_size", "person_cost", "average_ti"}
	for _, c := range categories {
		header = append(header, "ti_"+c)
	}
	questions := make([]string, 0, len(data.Questions)+len(data.OpenQuestions))
	for _, q := range data.Questions {
		questions = append(questions, q.Text)
	}
	questions = append(questions, data.OpenQuestions...)
	header = append(header, questions...)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write export header: %w", err)
	}

	for _, row := range data.Rows {
		industry := "-"
		if row.Industry != nil && *row.Industry != "" {
			industry = *row.Industry
		}
		teamSize := "0"
		if row.TeamSize != nil {
			teamSize = strconv.Itoa(*row.TeamSize)
		}
		personCost := "0"
		if row.PersonCost != nil {
			personCost = formatNumber(*row.PersonCost)
		}

		record := []string{row.Username, row.Role, industry, teamSize, personCost, formatNumber(row.Average)}
		for _, c := range categories {
			if score, ok := data.Scores[row.ID][c]; ok {
				record = append(record, formatNumber(score))
			} else {
				record = append(record, "")
			}
		}
		for _, q := range questions {
			record = append(record, data.Answers[row.ID][q])
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.String(), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
