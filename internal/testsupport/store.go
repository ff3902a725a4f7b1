package testsupport

import (
	"context"
	"testing"

	"chunklapse/internal/config"
	"chunklapse/internal/history"
)

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordRender inserts a finished render row for tests.
func RecordRender(t testing.TB, store *history.Store, runID, scene, world, status string) int64 {
	t.Helper()

	id, err := store.BeginRender(context.Background(), runID, scene, world)
	if err != nil {
		t.Fatalf("store.BeginRender: %v", err)
	}
	if err := store.FinishRender(context.Background(), id, status, "", ""); err != nil {
		t.Fatalf("store.FinishRender: %v", err)
	}
	return id
}
