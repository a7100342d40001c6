package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/model"
	"github.com/Veraticus/thirteenf/internal/testutil"
)

func seededStore(t *testing.T) (*testutil.TestStore, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "records.db")
	store := testutil.SetupTestStoreAt(t, dbPath)
	store.MustSave("run-1",
		model.SecurityRecord{Identity: "ABCDEF123", Flag: "*", Name: "Acme Corp", Description: "Widgets", Status: "Active"},
		model.SecurityRecord{Identity: "000360206", Name: "AAON INC", Description: "COM PAR $0.004"},
	)
	return store, dbPath
}

func TestRecordsList(t *testing.T) {
	_, dbPath := seededStore(t)

	out, err := execute(t, "records", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ABCDEF123")
	assert.Contains(t, out, "000360206")
	assert.Contains(t, out, "AAON INC")
}

func TestRecordsList_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	out, err := execute(t, "records", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No records found")
}

func TestRecordsGet(t *testing.T) {
	_, dbPath := seededStore(t)

	out, err := execute(t, "records", "get", "1", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"Identity": "ABCDEF123"`)
	assert.Contains(t, out, `"id": 1`)

	_, err = execute(t, "records", "get", "99", "--db", dbPath)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = execute(t, "records", "get", "abc", "--db", dbPath)
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestRecordsUpdateAndHistory(t *testing.T) {
	store, dbPath := seededStore(t)

	out, err := execute(t, "records", "update", "1", "--set", "Status=DELETED", "--user", "bob", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Updated record 1")

	rec, err := store.GetRecord(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "DELETED", rec.Data["Status"])
	assert.Equal(t, "Acme Corp", rec.Data["Name"])

	out, err = execute(t, "records", "history", "1", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "create")
	assert.Contains(t, out, "update")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, `Status: "Active" → "DELETED"`)
}

func TestRecordsUpdate_RequiresSet(t *testing.T) {
	_, dbPath := seededStore(t)

	_, err := execute(t, "records", "update", "1", "--db", dbPath)
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)

	_, err = execute(t, "records", "update", "1", "--set", "novalue", "--db", dbPath)
	assert.ErrorAs(t, err, &userErr)
}

func TestRecordsDelete(t *testing.T) {
	store, dbPath := seededStore(t)

	out, err := execute(t, "records", "delete", "2", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted record 2")

	_, err = store.GetRecord(context.Background(), 2)
	assert.ErrorIs(t, err, common.ErrNotFound)

	entries, err := store.ListAudit(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.AuditDelete, entries[1].Operation)
	assert.Equal(t, "system", entries[1].User)
}

func TestFieldsListAndAdd(t *testing.T) {
	_, dbPath := seededStore(t)

	out, err := execute(t, "fields", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Identity")
	assert.Contains(t, out, "CUSIP")

	out, err = execute(t, "fields", "add", "Exchange", "--description", "Primary listing", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, `Added field "Exchange"`)

	_, err = execute(t, "fields", "add", "Exchange", "--db", dbPath)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = execute(t, "fields", "add", "Bad", "--type", "blob", "--db", dbPath)
	assert.Error(t, err)
}

func TestRecordsRequiresDatabase(t *testing.T) {
	t.Setenv("THIRTEENF_STORAGE_DATABASE", "")

	_, err := execute(t, "records", "list")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestDescribeChanges(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	store.MustSave("run-1", model.SecurityRecord{Identity: "ABCDEF123", Name: "Acme Corp", Status: "Active"})

	data := store.MustRecords()[0].Data
	data["Status"] = "DELETED"
	data["Flag"] = "*"
	_, err := store.UpdateRecord(ctx, 1, data, "bob")
	require.NoError(t, err)
	require.NoError(t, store.DeleteRecord(ctx, 1, "bob"))

	entries, err := store.ListAudit(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "ABCDEF123", describeChanges(entries[0]))
	assert.Equal(t, `Flag: "" → "*", Status: "Active" → "DELETED"`, describeChanges(entries[1]))
	assert.Equal(t, "ABCDEF123", describeChanges(entries[2]))
}
