package testsupport

import (
	"testing"

	"vidna/internal/catalog"
	"vidna/internal/config"
)

// MustOpenCatalog opens the run catalog for cfg and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg.CatalogPath())
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
