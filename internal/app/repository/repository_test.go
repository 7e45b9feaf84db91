package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/portside/portside/config"
	"github.com/portside/portside/internal/app/model"
	"github.com/portside/portside/internal/infra/sqlite"
)

// newTestDB opens a fresh store in a temp dir and runs the full migration
// chain, so repository tests see exactly the production schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.NewGorm(config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db, zap.NewNop()))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func seedShortcut(t *testing.T, repo ShortcutRepository, s model.Shortcut) model.Shortcut {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &s))
	return s
}

func names(shortcuts []model.Shortcut) []string {
	out := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		out[i] = s.Name
	}
	return out
}
