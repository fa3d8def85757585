package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, user_id, title, contract_text, analysis_type, analysis_result, risk_score, status, created_at`

// Save inserts a contract analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.ContractAnalysis) error {
	const q = `
INSERT INTO contract_analyses
  (` + analysisColumns + `)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  title=VALUES(title), analysis_result=VALUES(analysis_result),
  risk_score=VALUES(risk_score), status=VALUES(status);
`
	result, err := encodeResult(a.Result)
	if err != nil {
		return err
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.UserID, a.Title, a.ContractText,
		stringOrDash(string(a.AnalysisType)), result, a.RiskScore,
		stringOrDash(string(a.Status)), createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert contract analysis: %w", err)
	}
	return nil
}

// Get by ID, only when owned by userID
func (r *AnalysisRepository) Get(ctx context.Context, userID string, id domain.ID) (*domain.ContractAnalysis, error) {
	const q = `
SELECT ` + analysisColumns + `
FROM contract_analyses
WHERE id=? AND user_id=? LIMIT 1;
`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByUser returns every analysis of a user, newest first
func (r *AnalysisRepository) ListByUser(ctx context.Context, userID string) ([]*domain.ContractAnalysis, error) {
	const q = `
SELECT ` + analysisColumns + `
FROM contract_analyses
WHERE user_id=?
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	out := []*domain.ContractAnalysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an analysis owned by userID
func (r *AnalysisRepository) Delete(ctx context.Context, userID string, id domain.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contract_analyses WHERE id=? AND user_id=?;`, id, userID)
	if err != nil {
		return fmt.Errorf("delete contract analysis: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAnalysis(row rowScanner) (*domain.ContractAnalysis, error) {
	var a domain.ContractAnalysis
	var result []byte
	if err := row.Scan(
		&a.ID, &a.UserID, &a.Title, &a.ContractText, &a.AnalysisType,
		&result, &a.RiskScore, &a.Status, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	res, err := decodeResult(result)
	if err != nil {
		return nil, err
	}
	a.Result = res
	return &a, nil
}
