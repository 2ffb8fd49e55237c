// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/cinerules/internal/config"
)

// testDBSemaphore serializes DuckDB tests. Concurrent CGO calls from many
// parallel tests can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates an in-memory database that is closed when the test ends.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   2,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

// writeFile writes content to name inside a fresh temp directory.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestNew_InMemory(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if !db.inMemory() {
		t.Error("inMemory() = false, want true")
	}
	if db.Conn() == nil {
		t.Error("Conn() = nil")
	}
}

func TestNew_FileCreatesDirectory(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := filepath.Join(t.TempDir(), "nested", "dir", "cinerules.duckdb")
	db, err := New(&config.DatabaseConfig{Path: path, MaxMemory: "256MB"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestEnsureContext(t *testing.T) {
	db := &DB{}

	//nolint:staticcheck // nil context is handled explicitly
	ctx, cancel := db.ensureContext(nil)
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("nil context: expected default deadline")
	}

	ctx2, cancel2 := db.ensureContext(context.Background())
	defer cancel2()
	deadline, ok := ctx2.Deadline()
	if !ok || time.Until(deadline) > defaultQueryTimeout {
		t.Errorf("background context: deadline = %v, want within %v", deadline, defaultQueryTimeout)
	}

	parent, cancelParent := context.WithTimeout(context.Background(), time.Hour)
	defer cancelParent()
	ctx3, cancel3 := db.ensureContext(parent)
	defer cancel3()
	if ctx3 != parent {
		t.Error("context with deadline should be returned unchanged")
	}
}

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"data/ratings.csv", "'data/ratings.csv'"},
		{"it's.csv", "'it''s.csv'"},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := quoteLiteral(tt.in); got != tt.want {
			t.Errorf("quoteLiteral(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
