package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xvierd/hookscope/internal/domain"
	"github.com/xvierd/hookscope/internal/ports"
)

// outcomeRepository implements ports.OutcomeRepository using SQLite.
type outcomeRepository struct {
	db *sql.DB
}

// newOutcomeRepository creates a new outcome repository.
func newOutcomeRepository(db *sql.DB) ports.OutcomeRepository {
	return &outcomeRepository{db: db}
}

// Save persists an outcome and its diagnostics in one transaction.
func (r *outcomeRepository) Save(ctx context.Context, record *domain.OutcomeRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outcomes (id, hook, status, output, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		record.ID,
		record.Hook,
		string(record.Outcome.Status),
		record.Outcome.Output,
		record.RecordedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("outcome %s already recorded: %w", record.ID, err)
		}
		return fmt.Errorf("failed to save outcome: %w", err)
	}

	for i, d := range record.Outcome.Diagnostics {
		var col sql.NullInt64
		if d.Column != nil {
			col = sql.NullInt64{Int64: int64(*d.Column), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics (outcome_id, seq, file, line, col, severity, message)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, record.ID, i, d.File, d.Line, col, string(d.Severity), d.Message)
		if err != nil {
			return fmt.Errorf("failed to save diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit outcome: %w", err)
	}
	return nil
}

// FindByID retrieves an outcome by its unique identifier.
func (r *outcomeRepository) FindByID(ctx context.Context, id string) (*domain.OutcomeRecord, error) {
	records, err := r.query(ctx, "id = ?", 1, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrOutcomeNotFound
	}
	return records[0], nil
}

// FindRecent returns at most limit outcomes, newest first.
func (r *outcomeRepository) FindRecent(ctx context.Context, limit int) ([]*domain.OutcomeRecord, error) {
	if limit <= 0 {
		return []*domain.OutcomeRecord{}, nil
	}
	return r.query(ctx, "", limit)
}

// FindByHook returns the outcomes of one hook, newest first.
func (r *outcomeRepository) FindByHook(ctx context.Context, hook string) ([]*domain.OutcomeRecord, error) {
	return r.query(ctx, "hook = ?", 0, hook)
}

// FindByStatus returns the outcomes with the given status, newest first.
func (r *outcomeRepository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.OutcomeRecord, error) {
	return r.query(ctx, "status = ?", 0, string(status))
}

// query loads outcomes matching where, newest first, and attaches their
// diagnostics. A limit of zero means no limit.
func (r *outcomeRepository) query(ctx context.Context, where string, limit int, args ...interface{}) ([]*domain.OutcomeRecord, error) {
	query := "SELECT id, hook, status, output, recorded_at FROM outcomes"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY recorded_at DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	records := []*domain.OutcomeRecord{}
	for rows.Next() {
		var rec domain.OutcomeRecord
		var status string
		if err := rows.Scan(&rec.ID, &rec.Hook, &status, &rec.Outcome.Output, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		rec.Outcome.Status = domain.Status(status)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outcomes: %w", err)
	}

	for _, rec := range records {
		diags, err := r.diagnostics(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Outcome.Diagnostics = diags
	}
	return records, nil
}

func (r *outcomeRepository) diagnostics(ctx context.Context, outcomeID string) ([]domain.Diagnostic, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT file, line, col, severity, message
		FROM diagnostics
		WHERE outcome_id = ?
		ORDER BY seq
	`, outcomeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query diagnostics: %w", err)
	}
	defer rows.Close()

	diags := []domain.Diagnostic{}
	for rows.Next() {
		var d domain.Diagnostic
		var col sql.NullInt64
		var severity string
		if err := rows.Scan(&d.File, &d.Line, &col, &severity, &d.Message); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		if col.Valid {
			c := int(col.Int64)
			d.Column = &c
		}
		d.Severity = domain.Severity(severity)
		diags = append(diags, d)
	}
	return diags, rows.Err()
}
