package backend

import (
	"path/filepath"
	"testing"

	"tracker/internal/config"
)

func TestTypeIsValid(t *testing.T) {
	for _, bt := range Types() {
		if !bt.IsValid() {
			t.Fatalf("%s should be valid", bt)
		}
	}
	if Type("postgres").IsValid() {
		t.Fatalf("unexpected valid type")
	}
}

func TestFactoryCreate(t *testing.T) {
	tmpDir := t.TempDir()
	f := NewFactory(nil)

	cases := []struct {
		name string
		cfg  config.Config
		want Type
	}{
		{"memory", config.Config{DataBackend: "memory"}, MemoryBackend},
		{"jsonfile", config.Config{DataBackend: "jsonfile", DataDirectory: filepath.Join(tmpDir, "data")}, JSONFileBackend},
		{"sqlite", config.Config{DataBackend: "sqlite", SQLiteDBPath: filepath.Join(tmpDir, "ledger.db")}, SQLiteBackend},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := f.Create(&tc.cfg)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			defer res.Repository.Close()
			if res.Type != tc.want {
				t.Fatalf("expected type %s, got %s", tc.want, res.Type)
			}
		})
	}

	if _, err := f.Create(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
