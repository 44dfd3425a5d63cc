package database

import (
	"testing"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/config"
)

func TestConfigDSN(t *testing.T) {
	cfg := NewConfig(&config.Config{
		DBDriver:   "postgres",
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "u",
		DBPassword: "p",
		DBName:     "fin",
		DBSSLMode:  "disable",
	})

	if got, want := cfg.DSN(), "host=db port=5432 user=u password=p dbname=fin sslmode=disable"; got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if got, want := cfg.MigrateURL(), "postgres://u:p@db:5432/fin?sslmode=disable"; got != want {
		t.Errorf("MigrateURL() = %q, want %q", got, want)
	}
}

func TestNewManagerSQLite(t *testing.T) {
	m, err := NewManager(&Config{Driver: DriverSQLite, SQLitePath: "file::memory:"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Close()

	if err := m.RunMigrations(); err != nil {
		t.Fatalf("auto-migration failed: %v", err)
	}
	if !m.DB().Migrator().HasTable("recurring_payments") {
		t.Error("expected recurring_payments table")
	}
}

func TestNewManagerUnknownDriver(t *testing.T) {
	if _, err := NewManager(&Config{Driver: "oracle"}); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
