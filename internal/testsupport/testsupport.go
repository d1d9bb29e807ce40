// Package testsupport provides shared fixtures for garage tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"garage/internal/config"
	"garage/internal/tabular"
)

// NewConfig produces a config seeded with unique temp paths per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = base
	cfg.Paths.MasterFile = filepath.Join(base, "master.csv")
	cfg.Paths.CollectionFile = filepath.Join(base, "collection.csv")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	return &cfg
}

// SeedStore writes rows to path in the canonical format via a throwaway store.
func SeedStore(t testing.TB, path string, rows []tabular.Record) {
	t.Helper()

	if err := tabular.NewStore(path, nil).Save(rows); err != nil {
		t.Fatalf("seed store %s: %v", path, err)
	}
}

// SampleCatalog returns a small master catalog used across tests.
func SampleCatalog() []tabular.Record {
	return []tabular.Record{
		{ToyNumber: "HW01", Name: "Twin Mill", Year: "2020", Series: "Main", ImageURL: "twinmill.png"},
		{ToyNumber: "HW02", Name: "Bone Shaker", Year: "2020", Series: "Main (New for 2020)", ImageURL: "boneshaker.png"},
		{ToyNumber: "HW03", Name: "Roadster", Year: "2021", Series: "Muscle", ImageURL: "roadster.png"},
	}
}
