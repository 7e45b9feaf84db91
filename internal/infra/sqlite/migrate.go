package sqlite

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// schemaMigration records an applied migration step so steps run once
// instead of being re-derived by shape-sniffing on every boot.
type schemaMigration struct {
	Version   int    `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// migrationStep is one idempotent schema change. Steps are additive except
// the final rebuild; each is applied in its own transaction and failures are
// logged rather than fatal, so the server can keep running against an older
// schema shape (degraded: writes that rely on the missing step fail
// individually).
type migrationStep struct {
	version int
	name    string
	run     func(tx *gorm.DB) error
}

// Migrate brings the live schema up to what the repositories expect. Errors
// are reported per step; a failed step is retried on the next start because
// its version marker is only recorded on success.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("sqlite: create schema_migrations: %w", err)
	}

	applied := map[int]bool{}
	var rows []schemaMigration
	if err := db.Find(&rows).Error; err != nil {
		return fmt.Errorf("sqlite: read schema_migrations: %w", err)
	}
	for _, r := range rows {
		applied[r.Version] = true
	}

	for _, step := range steps {
		if applied[step.version] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := step.run(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{
				Version:   step.version,
				Name:      step.name,
				AppliedAt: time.Now(),
			}).Error
		})
		if err != nil {
			log.Error("schema migration step failed, continuing",
				zap.Int("version", step.version),
				zap.String("name", step.name),
				zap.Error(err))
			continue
		}
		log.Info("schema migration applied",
			zap.Int("version", step.version),
			zap.String("name", step.name))
	}

	return nil
}

// steps is the ordered schema history. Version 1 is the original shape with
// a NOT NULL port; later versions added the section/ordering model, and
// version 9 relaxes the port constraint via a table rebuild.
var steps = []migrationStep{
	{1, "create shortcuts table", func(tx *gorm.DB) error {
		return tx.Exec(`CREATE TABLE IF NOT EXISTS shortcuts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			icon TEXT NOT NULL DEFAULT 'cube',
			port INTEGER NOT NULL,
			container_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`).Error
	}},
	{2, "add shortcuts.url", addColumn("shortcuts", "url", "TEXT")},
	{3, "add shortcuts.icon_type", addColumn("shortcuts", "icon_type", "TEXT")},
	{4, "add shortcuts.is_favorite", addColumn("shortcuts", "is_favorite", "NUMERIC NOT NULL DEFAULT 0")},
	{5, "add shortcuts.use_tailscale", addColumn("shortcuts", "use_tailscale", "NUMERIC NOT NULL DEFAULT 0")},
	{6, "create sections table", func(tx *gorm.DB) error {
		return tx.Exec(`CREATE TABLE IF NOT EXISTS sections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			is_collapsed NUMERIC NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`).Error
	}},
	{7, "add shortcuts.section_id", addColumn("shortcuts", "section_id", "INTEGER")},
	{8, "add shortcuts.position", addColumn("shortcuts", "position", "INTEGER NOT NULL DEFAULT 0")},
	{9, "relax shortcuts.port to nullable", rebuildShortcutsNullablePort},
}

// addColumn returns a best-effort additive step. The column check keeps the
// step idempotent on stores that predate version tracking.
func addColumn(table, column, definition string) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		if tx.Migrator().HasColumn(table, column) {
			return nil
		}
		return tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)).Error
	}
}

// rebuildShortcutsNullablePort performs the one structural migration: SQLite
// cannot drop a NOT NULL constraint in place, so a shadow table with the
// relaxed constraint is created, the intersection of common columns copied
// over, and the tables swapped. The surrounding transaction in Migrate means
// a crash mid-rebuild leaves the old table intact.
func rebuildShortcutsNullablePort(tx *gorm.DB) error {
	nullable, err := columnNullable(tx, "shortcuts", "port")
	if err != nil {
		return err
	}
	if nullable {
		return nil
	}

	if err := tx.Exec(`CREATE TABLE shortcuts_rebuild (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		url TEXT,
		port INTEGER,
		icon TEXT NOT NULL DEFAULT 'cube',
		icon_type TEXT,
		container_id TEXT,
		is_favorite NUMERIC NOT NULL DEFAULT 0,
		use_tailscale NUMERIC NOT NULL DEFAULT 0,
		section_id INTEGER,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`).Error; err != nil {
		return fmt.Errorf("create shadow table: %w", err)
	}

	common, err := commonColumns(tx, "shortcuts", "shortcuts_rebuild")
	if err != nil {
		return err
	}
	cols := strings.Join(common, ", ")
	if err := tx.Exec(fmt.Sprintf(
		"INSERT INTO shortcuts_rebuild (%s) SELECT %s FROM shortcuts", cols, cols,
	)).Error; err != nil {
		return fmt.Errorf("copy rows: %w", err)
	}

	if err := tx.Exec("DROP TABLE shortcuts").Error; err != nil {
		return fmt.Errorf("drop old table: %w", err)
	}
	if err := tx.Exec("ALTER TABLE shortcuts_rebuild RENAME TO shortcuts").Error; err != nil {
		return fmt.Errorf("rename shadow table: %w", err)
	}
	return nil
}

func columnNullable(tx *gorm.DB, table, column string) (bool, error) {
	types, err := tx.Migrator().ColumnTypes(table)
	if err != nil {
		return false, fmt.Errorf("inspect %s: %w", table, err)
	}
	for _, ct := range types {
		if ct.Name() == column {
			nullable, _ := ct.Nullable()
			return nullable, nil
		}
	}
	return false, fmt.Errorf("inspect %s: column %s not found", table, column)
}

func commonColumns(tx *gorm.DB, oldTable, newTable string) ([]string, error) {
	oldCols, err := tableColumns(tx, oldTable)
	if err != nil {
		return nil, err
	}
	newCols, err := tableColumns(tx, newTable)
	if err != nil {
		return nil, err
	}
	newSet := map[string]bool{}
	for _, c := range newCols {
		newSet[c] = true
	}
	var common []string
	for _, c := range oldCols {
		if newSet[c] {
			common = append(common, c)
		}
	}
	return common, nil
}

func tableColumns(tx *gorm.DB, table string) ([]string, error) {
	types, err := tx.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	names := make([]string, 0, len(types))
	for _, ct := range types {
		names = append(names, ct.Name())
	}
	return names, nil
}
