// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/testhub/internal/ports/secondary"
)

// RunLogRepository implements secondary.RunLogRepository with SQLite.
type RunLogRepository struct {
	db *sql.DB
}

var _ secondary.RunLogRepository = (*RunLogRepository)(nil)

// NewRunLogRepository creates a new SQLite run log repository.
func NewRunLogRepository(db *sql.DB) *RunLogRepository {
	return &RunLogRepository{db: db}
}

// RecordRun persists a completed run. An empty ID is filled in.
func (r *RunLogRepository) RecordRun(ctx context.Context, run *secondary.RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	var station sql.NullString
	if run.Station != "" {
		station = sql.NullString{String: run.Station, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, identity, barcode, status, timestamp, station, result_count) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Identity,
		run.Barcode,
		run.Status,
		run.Timestamp,
		station,
		run.ResultCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ListRuns retrieves runs matching the given filters, newest first.
func (r *RunLogRepository) ListRuns(ctx context.Context, filters secondary.RunFilters) ([]*secondary.RunRecord, error) {
	query := `SELECT id, identity, barcode, status, timestamp, station, result_count, created_at FROM runs WHERE 1=1`
	args := []any{}

	if filters.Identity != "" {
		query += " AND identity = ?"
		args = append(args, filters.Identity)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		var (
			station   sql.NullString
			createdAt time.Time
		)
		record := &secondary.RunRecord{}
		if err := rows.Scan(&record.ID,
			&record.Identity,
			&record.Barcode,
			&record.Status,
			&record.Timestamp,
			&station,
			&record.ResultCount,
			&createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.Station = station.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		runs = append(runs, record)
	}
	return runs, rows.Err()
}

// RecordSync persists a sync attempt. An empty ID is filled in.
func (r *RunLogRepository) RecordSync(ctx context.Context, rec *secondary.SyncRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	var message, errStr, station sql.NullString
	if rec.Message != "" {
		message = sql.NullString{String: rec.Message, Valid: true}
	}
	if rec.Error != "" {
		errStr = sql.NullString{String: rec.Error, Valid: true}
	}
	if rec.Station != "" {
		station = sql.NullString{String: rec.Station, Valid: true}
	}
	ok := 0
	if rec.OK {
		ok = 1
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_attempts (id, operation, message, ok, error, station) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Operation,
		message,
		ok,
		errStr,
		station,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync attempt: %w", err)
	}
	return nil
}

// ListSync retrieves the most recent sync attempts, newest first.
func (r *RunLogRepository) ListSync(ctx context.Context, limit int) ([]*secondary.SyncRecord, error) {
	query := `SELECT id, operation, message, ok, error, station, created_at FROM sync_attempts ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync attempts: %w", err)
	}
	defer rows.Close()

	var records []*secondary.SyncRecord
	for rows.Next() {
		var (
			message, errStr, station sql.NullString
			ok                       int
			createdAt                time.Time
		)
		record := &secondary.SyncRecord{}
		if err := rows.Scan(&record.ID,
			&record.Operation,
			&message,
			&ok,
			&errStr,
			&station,
			&createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync attempt: %w", err)
		}
		record.Message = message.String
		record.OK = ok != 0
		record.Error = errStr.String
		record.Station = station.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		records = append(records, record)
	}
	return records, rows.Err()
}
