package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/model"
)

// CreateRecord stores a record and writes a create entry to the audit log.
func (s *SQLiteStorage) CreateRecord(ctx context.Context, data map[string]any, user string) (*model.StoredRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateData(data); err != nil {
		return nil, err
	}

	var rec *model.StoredRecord
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		rec, err = s.createRecordTx(ctx, tx, data, user, "")
		return err
	})
	return rec, err
}

func (s *SQLiteStorage) createRecordTx(ctx context.Context, q queryer, data map[string]any, user, runID string) (*model.StoredRecord, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	result, err := q.ExecContext(ctx, `INSERT INTO records (data) VALUES (?)`, string(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get record ID: %w", err)
	}

	if err := s.appendAudit(ctx, q, model.AuditEntry{
		RecordID:  id,
		Operation: model.AuditCreate,
		User:      user,
		RunID:     runID,
		After:     data,
	}); err != nil {
		return nil, err
	}

	return &model.StoredRecord{ID: id, Data: data}, nil
}

// ListRecords returns every stored record in insertion order.
func (s *SQLiteStorage) ListRecords(ctx context.Context) ([]model.StoredRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []model.StoredRecord
	for rows.Next() {
		var (
			rec  model.StoredRecord
			data string
		)
		if err := rows.Scan(&rec.ID, &data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetRecord returns the record with the given id or common.ErrNotFound.
func (s *SQLiteStorage) GetRecord(ctx context.Context, id int64) (*model.StoredRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.getRecordTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getRecordTx(ctx context.Context, q queryer, id int64) (*model.StoredRecord, error) {
	var data string
	err := q.QueryRowContext(ctx, `SELECT data FROM records WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: record %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	rec := &model.StoredRecord{ID: id}
	if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
		return nil, fmt.Errorf("failed to decode record %d: %w", id, err)
	}
	return rec, nil
}

// UpdateRecord replaces a record's data and audits the before and after values.
func (s *SQLiteStorage) UpdateRecord(ctx context.Context, id int64, data map[string]any, user string) (*model.StoredRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := validateData(data); err != nil {
		return nil, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		before, err := s.getRecordTx(ctx, tx, id)
		if err != nil {
			return err
		}

		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE records SET data = ? WHERE id = ?`, string(encoded), id); err != nil {
			return fmt.Errorf("failed to update record: %w", err)
		}

		return s.appendAudit(ctx, tx, model.AuditEntry{
			RecordID:  id,
			Operation: model.AuditUpdate,
			User:      user,
			Before:    before.Data,
			After:     data,
		})
	})
	if err != nil {
		return nil, err
	}

	return &model.StoredRecord{ID: id, Data: data}, nil
}

// DeleteRecord removes a record and audits its last value.
func (s *SQLiteStorage) DeleteRecord(ctx context.Context, id int64, user string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		before, err := s.getRecordTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}

		return s.appendAudit(ctx, tx, model.AuditEntry{
			RecordID:  id,
			Operation: model.AuditDelete,
			User:      user,
			Before:    before.Data,
		})
	})
}

// SaveSecurities hands the records of one conversion run to the store. The
// catalog is seeded with SecurityFields and every record is inserted in a
// single transaction, so a failed hand-off stores nothing.
func (s *SQLiteStorage) SaveSecurities(ctx context.Context, runID, user string, records []model.SecurityRecord) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return 0, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.ensureSecurityFields(ctx, tx, user); err != nil {
			return err
		}
		for i, rec := range records {
			if _, err := s.createRecordTx(ctx, tx, rec.Map(), user, runID); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Stored records", "run_id", runID, "count", len(records), "database", s.dbPath)
	return len(records), nil
}
