package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Veraticus/thirteenf/internal/model"
)

func (s *SQLiteStorage) appendAudit(ctx context.Context, q queryer, entry model.AuditEntry) error {
	if entry.User == "" {
		entry.User = "system"
	}

	before, err := encodeNullable(entry.Before)
	if err != nil {
		return err
	}
	after, err := encodeNullable(entry.After)
	if err != nil {
		return err
	}

	var runID sql.NullString
	if entry.RunID != "" {
		runID = sql.NullString{String: entry.RunID, Valid: true}
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO audit_log (record_id, operation, timestamp, user, "before", "after", run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RecordID, string(entry.Operation), time.Now().UTC(), entry.User, before, after, runID)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// ListAudit returns audit entries in the order they were written. A
// recordID of 0 returns the entries of every record.
func (s *SQLiteStorage) ListAudit(ctx context.Context, recordID int64) ([]model.AuditEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, record_id, operation, timestamp, user, "before", "after", run_id
		FROM audit_log`
	var args []any
	if recordID != 0 {
		query += ` WHERE record_id = ?`
		args = append(args, recordID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var (
			e             model.AuditEntry
			op            string
			before, after sql.NullString
			runID         sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.RecordID, &op, &e.Timestamp, &e.User, &before, &after, &runID); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Operation = model.AuditOperation(op)
		e.RunID = runID.String
		if e.Before, err = decodeNullable(before); err != nil {
			return nil, err
		}
		if e.After, err = decodeNullable(after); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func encodeNullable(data map[string]any) (sql.NullString, error) {
	if data == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode audit data: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeNullable(s sql.NullString) (map[string]any, error) {
	if !s.Valid {
		return nil, nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(s.String), &data); err != nil {
		return nil, fmt.Errorf("failed to decode audit data: %w", err)
	}
	return data, nil
}
