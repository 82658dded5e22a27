package db

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

func TestOpen_SQLiteMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	database, err := Open(&config.DatabaseConfig{URL: "sqlite://" + path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer database.Close()

	if database.Driver() != "sqlite" {
		t.Errorf("Driver() = %q, want sqlite", database.Driver())
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	for _, m := range model.All() {
		if !database.DB().Migrator().HasTable(m) {
			t.Errorf("table for %T was not created", m)
		}
	}
}

func TestOpen_RejectsUnknownURLs(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "mysql", url: "mysql://root@localhost/ledger", want: "unsupported database url"},
		{name: "empty", url: "", want: "unsupported database url"},
		{name: "sqlite without path", url: "sqlite://", want: "needs a path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(&config.DatabaseConfig{URL: tt.url})
			if err == nil {
				t.Fatal("Open() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Open() error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}
