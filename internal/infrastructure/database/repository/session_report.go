package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scambait-lab/internal/domain/models"
)

// sessionReportsSchema holds the archive table for finalized sessions
const sessionReportsSchema = `
CREATE TABLE IF NOT EXISTS session_reports (
	id          UUID PRIMARY KEY,
	session_id  TEXT NOT NULL,
	scam_type   TEXT NOT NULL DEFAULT '',
	start_time  TIMESTAMPTZ NOT NULL,
	end_time    TIMESTAMPTZ NOT NULL,
	turn_count  INTEGER NOT NULL DEFAULT 0,
	exit_reason TEXT NOT NULL DEFAULT '',
	intel       JSONB NOT NULL DEFAULT '{}',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_session_reports_session_id ON session_reports (session_id);
CREATE INDEX IF NOT EXISTS idx_session_reports_end_time ON session_reports (end_time DESC);
`

// SessionReportRepository archives finalized session intelligence reports
type SessionReportRepository struct {
	pool *pgxpool.Pool
}

// NewSessionReportRepository creates a session report repository
func NewSessionReportRepository(pool *pgxpool.Pool) *SessionReportRepository {
	return &SessionReportRepository{pool: pool}
}

// EnsureSchema creates the archive table if it does not exist
func (r *SessionReportRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, sessionReportsSchema); err != nil {
		return fmt.Errorf("failed to ensure session_reports schema: %w", err)
	}
	return nil
}

// SaveReport inserts a finalized session report
func (r *SessionReportRepository) SaveReport(ctx context.Context, report *models.SessionReport) error {
	intel, err := json.Marshal(report.Intel)
	if err != nil {
		return fmt.Errorf("failed to marshal intel: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO session_reports (id, session_id, scam_type, start_time, end_time, turn_count, exit_reason, intel)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		report.ID, report.SessionID, string(report.ScamType),
		report.StartTime, report.EndTime, report.TurnCount,
		report.ExitReason, intel,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session report: %w", err)
	}
	return nil
}

// GetBySession returns the most recent report for a session, or nil
func (r *SessionReportRepository) GetBySession(ctx context.Context, sessionID string) (*models.SessionReport, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, session_id, scam_type, start_time, end_time, turn_count, exit_reason, intel
		FROM session_reports
		WHERE session_id = $1
		ORDER BY end_time DESC
		LIMIT 1`,
		sessionID,
	)

	report, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session report: %w", err)
	}
	return report, nil
}

// ListRecent returns the most recently closed session reports
func (r *SessionReportRepository) ListRecent(ctx context.Context, limit int) ([]*models.SessionReport, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, scam_type, start_time, end_time, turn_count, exit_reason, intel
		FROM session_reports
		ORDER BY end_time DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list session reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.SessionReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// scanReport hydrates one report row
func scanReport(row pgx.Row) (*models.SessionReport, error) {
	var (
		report    models.SessionReport
		scamType  string
		startTime time.Time
		endTime   time.Time
		intel     []byte
	)
	if err := row.Scan(
		&report.ID, &report.SessionID, &scamType,
		&startTime, &endTime, &report.TurnCount,
		&report.ExitReason, &intel,
	); err != nil {
		return nil, err
	}

	report.ScamType = models.ScamType(scamType)
	report.StartTime = startTime
	report.EndTime = endTime
	report.Intel = make(map[models.IntelType][]string)
	if len(intel) > 0 {
		if err := json.Unmarshal(intel, &report.Intel); err != nil {
			return nil, err
		}
	}
	return &report, nil
}
