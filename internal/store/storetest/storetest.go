// Package storetest opens throwaway in-memory databases for tests.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"sfc/internal/store"
	"sfc/pkg/db"

	"github.com/google/uuid"
)

// New returns a migrated store backed by a private in-memory sqlite database.
// A single connection keeps every query on the same in-memory database.
func New(t testing.TB) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := db.OpenGorm(db.Config{DSN: dsn, MaxConns: 1})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	st := store.New(gdb)
	if err := st.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return st
}
