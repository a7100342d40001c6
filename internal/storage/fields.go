package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/model"
)

// SecurityFields are the catalog entries for the columns of a SecurityRecord.
var SecurityFields = []model.Field{
	{Name: "Identity", Label: "CUSIP", DataType: "string", Description: "Nine character CUSIP number"},
	{Name: "Flag", Label: "Option Flag", DataType: "string", Description: "Set when options are listed"},
	{Name: "Name", Label: "Issuer Name", DataType: "string"},
	{Name: "Description", Label: "Issuer Description", DataType: "string"},
	{Name: "Status", Label: "Status", DataType: "string", Description: "ADDED or DELETED since the previous list"},
}

// CreateField adds a field to the catalog. It returns common.ErrDuplicateEntry
// if a field with the same name exists.
func (s *SQLiteStorage) CreateField(ctx context.Context, field *model.Field) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateField(field); err != nil {
		return err
	}
	return s.createFieldTx(ctx, s.db, field)
}

func (s *SQLiteStorage) createFieldTx(ctx context.Context, q queryer, field *model.Field) error {
	var existingID int64
	err := q.QueryRowContext(ctx, `SELECT id FROM field_catalog WHERE name = ?`, field.Name).Scan(&existingID)
	if err == nil {
		return fmt.Errorf("%w: field %q", common.ErrDuplicateEntry, field.Name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check existing field: %w", err)
	}

	if field.CreatedBy == "" {
		field.CreatedBy = "system"
	}
	field.CreatedAt = time.Now().UTC()

	result, err := q.ExecContext(ctx, `
		INSERT INTO field_catalog (name, label, data_type, description, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		field.Name, field.Label, field.DataType, field.Description, field.CreatedBy, field.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get field ID: %w", err)
	}
	field.ID = id

	return nil
}

// ListFields returns the catalog in creation order.
func (s *SQLiteStorage) ListFields(ctx context.Context) ([]model.Field, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, label, data_type, COALESCE(description, ''), created_by, created_at
		FROM field_catalog
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fields: %w", err)
	}
	defer rows.Close()

	var fields []model.Field
	for rows.Next() {
		var f model.Field
		if err := rows.Scan(&f.ID, &f.Name, &f.Label, &f.DataType, &f.Description, &f.CreatedBy, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		fields = append(fields, f)
	}

	return fields, rows.Err()
}

// ensureSecurityFields adds any missing SecurityFields to the catalog.
func (s *SQLiteStorage) ensureSecurityFields(ctx context.Context, q queryer, user string) error {
	for _, f := range SecurityFields {
		field := f
		field.CreatedBy = user
		if err := s.createFieldTx(ctx, q, &field); err != nil && !errors.Is(err, common.ErrDuplicateEntry) {
			return err
		}
	}
	return nil
}
