// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"libraryhub/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated sqlite database living in t.TempDir().
// A file database is used instead of :memory: so that every pooled connection
// sees the same schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "library.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
