package testsupport

import (
	"testing"

	"airstage/internal/config"
	"airstage/internal/queue"
	"airstage/internal/station"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenProfileStore opens a station.Store for tests and registers cleanup.
func MustOpenProfileStore(t testing.TB, cfg *config.Config) *station.Store {
	t.Helper()

	store, err := station.Open(cfg)
	if err != nil {
		t.Fatalf("station.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
