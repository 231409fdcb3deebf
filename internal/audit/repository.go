package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
)

// ErrNotFound is returned when no report matches the id
var ErrNotFound = errors.New("analysis not found")

// Repository handles analysis report persistence
// ⭐ SSOT: 분석 결과 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new audit repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ReportSummary is one row of the analysis listing
type ReportSummary struct {
	AnalysisID     string    `json:"analysis_id"`
	ReportSource   string    `json:"report_source"`
	Recommendation string    `json:"recommendation"`
	ProcessingSecs float64   `json:"processing_time_seconds"`
	ErrorCount     int       `json:"error_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Save upserts a finished report (implements brain.Store)
func (r *Repository) Save(ctx context.Context, report *contracts.AnalysisReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	recommendation := ""
	if report.ExecutiveSummary != nil {
		recommendation = report.ExecutiveSummary.Recommendation
	}

	query := `
		INSERT INTO analysis.reports (
			analysis_id, report_source, recommendation, processing_secs, error_count, report, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (analysis_id) DO UPDATE SET
			report_source = EXCLUDED.report_source,
			recommendation = EXCLUDED.recommendation,
			processing_secs = EXCLUDED.processing_secs,
			error_count = EXCLUDED.error_count,
			report = EXCLUDED.report,
			created_at = EXCLUDED.created_at
	`

	_, err = r.pool.Exec(ctx, query,
		report.AnalysisID, report.Metadata.ReportSource, recommendation,
		report.ProcessingTimeSeconds, len(report.Errors), reportJSON, report.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// Get retrieves a stored report by id
func (r *Repository) Get(ctx context.Context, analysisID string) (*contracts.AnalysisReport, error) {
	query := `
		SELECT report
		FROM analysis.reports
		WHERE analysis_id = $1
	`

	var reportJSON []byte
	err := r.pool.QueryRow(ctx, query, analysisID).Scan(&reportJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report contracts.AnalysisReport
	if err := json.Unmarshal(reportJSON, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}

// List returns the most recent report summaries
func (r *Repository) List(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT analysis_id, report_source, recommendation, processing_secs, error_count, created_at
		FROM analysis.reports
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	summaries := make([]ReportSummary, 0)
	for rows.Next() {
		var s ReportSummary
		if err := rows.Scan(
			&s.AnalysisID, &s.ReportSource, &s.Recommendation,
			&s.ProcessingSecs, &s.ErrorCount, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return summaries, nil
}

// Delete removes a stored report
func (r *Repository) Delete(ctx context.Context, analysisID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM analysis.reports WHERE analysis_id = $1`, analysisID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
