// Package testutil provides shared fixtures for thirteenf tests: a migrated
// in-memory record store and token pages shaped like the SEC list.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/thirteenf/internal/model"
	"github.com/Veraticus/thirteenf/internal/storage"
)

// TestStore is a migrated in-memory record store.
type TestStore struct {
	*storage.SQLiteStorage
	t *testing.T
}

// SetupTestStore creates a new in-memory store, runs migrations and
// registers cleanup.
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()
	return SetupTestStoreAt(t, ":memory:")
}

// SetupTestStoreAt creates a migrated store at dbPath. Use a file path for
// code under test that opens the database itself.
func SetupTestStoreAt(t *testing.T, dbPath string) *TestStore {
	t.Helper()

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestStore{SQLiteStorage: store, t: t}
}

// MustSave stores records under runID or fails the test.
func (s *TestStore) MustSave(runID string, records ...model.SecurityRecord) {
	s.t.Helper()
	if _, err := s.SaveSecurities(context.Background(), runID, "test", records); err != nil {
		s.t.Fatalf("failed to save records: %v", err)
	}
}

// MustRecords returns every stored record or fails the test.
func (s *TestStore) MustRecords() []model.StoredRecord {
	s.t.Helper()
	records, err := s.ListRecords(context.Background())
	if err != nil {
		s.t.Fatalf("failed to list records: %v", err)
	}
	return records
}
