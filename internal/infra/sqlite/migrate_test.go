package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/portside/portside/config"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewGorm(config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func hasColumn(t *testing.T, db *gorm.DB, table, column string) bool {
	t.Helper()
	return db.Migrator().HasColumn(table, column)
}

func TestMigrate_FreshStore(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db, zap.NewNop()))

	for _, col := range []string{
		"id", "name", "description", "url", "port", "icon", "icon_type",
		"container_id", "is_favorite", "use_tailscale", "section_id", "position",
	} {
		assert.True(t, hasColumn(t, db, "shortcuts", col), "missing column %s", col)
	}
	assert.True(t, db.Migrator().HasTable("sections"))

	nullable, err := columnNullable(db, "shortcuts", "port")
	require.NoError(t, err)
	assert.True(t, nullable, "port should end up nullable")

	// A nil-port row must be storable after the rebuild.
	require.NoError(t, db.Exec(
		"INSERT INTO shortcuts (name, container_id) VALUES (?, ?)", "container-only", "abc123",
	).Error)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db, zap.NewNop()))
	require.NoError(t, Migrate(db, zap.NewNop()))

	var count int64
	require.NoError(t, db.Table("schema_migrations").Count(&count).Error)
	assert.Equal(t, int64(len(steps)), count)
}

func TestMigrate_LegacyStoreKeepsData(t *testing.T) {
	db := openTestDB(t)

	// Simulate a store created by the first release: NOT NULL port, none of
	// the later columns, no version bookkeeping.
	require.NoError(t, db.Exec(`CREATE TABLE shortcuts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		icon TEXT NOT NULL DEFAULT 'cube',
		port INTEGER NOT NULL,
		container_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`).Error)
	require.NoError(t, db.Exec(
		"INSERT INTO shortcuts (name, description, port) VALUES (?, ?, ?)",
		"plex", "media server", 32400,
	).Error)

	require.NoError(t, Migrate(db, zap.NewNop()))

	nullable, err := columnNullable(db, "shortcuts", "port")
	require.NoError(t, err)
	assert.True(t, nullable)

	type row struct {
		Name        string
		Description string
		Port        *int
		IsFavorite  bool
		SectionID   *int64
		Position    int
	}
	var got row
	require.NoError(t, db.Table("shortcuts").Where("name = ?", "plex").Take(&got).Error)
	assert.Equal(t, "media server", got.Description)
	require.NotNil(t, got.Port)
	assert.Equal(t, 32400, *got.Port)
	assert.False(t, got.IsFavorite)
	assert.Nil(t, got.SectionID)
	assert.Equal(t, 0, got.Position)
}

func TestMigrate_RebuildSkippedWhenAlreadyNullable(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db, zap.NewNop()))

	// Running the rebuild step against an already-relaxed table is a no-op.
	require.NoError(t, rebuildShortcutsNullablePort(db))
	assert.False(t, db.Migrator().HasTable("shortcuts_rebuild"))
}
