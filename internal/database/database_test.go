package database

import (
	"path/filepath"
	"testing"
	"time"

	"repairdesk/internal/config"
	"repairdesk/internal/models"
)

func TestConfigDSN(t *testing.T) {
	c := &Config{Host: "db", Port: "5432", User: "u", Password: "p w", DBName: "repair", SSLMode: "disable"}

	if got := c.DSN(); got != "host=db port=5432 user=u password=p w dbname=repair sslmode=disable" {
		t.Errorf("unexpected DSN %q", got)
	}
	if got := c.MigrationURL(); got != "postgres://u:p%20w@db:5432/repair?sslmode=disable" {
		t.Errorf("unexpected migration URL %q", got)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: "x.db", StoreTimeout: 3 * time.Second, MigrationsPath: "migrations"}
	c := NewConfig(cfg)
	if c.Driver != "sqlite" || c.SQLitePath != "x.db" || c.StoreTimeout != 3*time.Second {
		t.Errorf("unexpected config %+v", c)
	}
}

func TestSQLiteManagerMigrates(t *testing.T) {
	m, err := NewManager(&Config{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "test.db"), StoreTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()

	if err := m.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	cat := &models.Category{Name: "Phones"}
	if err := m.DB().Create(cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	if cat.ID == "" {
		t.Error("expected generated id")
	}
	if m.StoreTimeout() != time.Second {
		t.Errorf("expected 1s store timeout, got %v", m.StoreTimeout())
	}
}
