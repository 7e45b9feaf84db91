package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/portside/portside/internal/app/model"
)

var (
	// ErrShortcutNotFound signals that the requested shortcut does not exist.
	ErrShortcutNotFound = errors.New("shortcut not found")
)

// ReorderItem is one (id, position) assignment of a bulk reorder.
type ReorderItem struct {
	ID       int64 `json:"id"`
	Position int   `json:"position"`
}

// ShortcutRepository defines the data access contract for shortcuts.
//
// List order is the contract every reader relies on: section scope first
// (NULL scope leads), then position, then name as the tie-break for rows
// that were never explicitly ordered. Duplicate positions within a scope are
// tolerated; the tie-break keeps reads deterministic regardless.
type ShortcutRepository interface {
	List(ctx context.Context) ([]model.Shortcut, error)
	GetByID(ctx context.Context, id int64) (*model.Shortcut, error)
	Create(ctx context.Context, shortcut *model.Shortcut) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*model.Shortcut, error)
	SetFavorite(ctx context.Context, id int64, favorite bool) error
	SetSection(ctx context.Context, id int64, sectionID *int64) error
	Reorder(ctx context.Context, items []ReorderItem) error
	Delete(ctx context.Context, id int64) error
}

type shortcutRepository struct {
	db *gorm.DB
}

// NewShortcutRepository returns a GORM-backed ShortcutRepository.
func NewShortcutRepository(db *gorm.DB) ShortcutRepository {
	return &shortcutRepository{db: db}
}

func (r *shortcutRepository) List(ctx context.Context) ([]model.Shortcut, error) {
	var result []model.Shortcut
	// SQLite sorts NULL first on ASC, which is exactly the "unsectioned
	// scope leads" contract.
	if err := r.db.WithContext(ctx).
		Order("section_id ASC").
		Order("position ASC").
		Order("name ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *shortcutRepository) GetByID(ctx context.Context, id int64) (*model.Shortcut, error) {
	var shortcut model.Shortcut
	if err := r.db.WithContext(ctx).First(&shortcut, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShortcutNotFound
		}
		return nil, err
	}
	return &shortcut, nil
}

func (r *shortcutRepository) Create(ctx context.Context, shortcut *model.Shortcut) error {
	return r.db.WithContext(ctx).Create(shortcut).Error
}

func (r *shortcutRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*model.Shortcut, error) {
	if len(fields) > 0 {
		result := r.db.WithContext(ctx).
			Model(&model.Shortcut{}).
			Where("id = ?", id).
			Updates(fields)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrShortcutNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// SetFavorite sets the flag directly; setting it to its current value or on
// a row that no longer exists is a successful no-op.
func (r *shortcutRepository) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Shortcut{}).
		Where("id = ?", id).
		Update("is_favorite", favorite).Error
}

// SetSection moves a shortcut to a (possibly nil) section scope. Position is
// deliberately untouched: the value travels with the shortcut and the
// (position, name) read tie-break places it in the destination scope.
func (r *shortcutRepository) SetSection(ctx context.Context, id int64, sectionID *int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Shortcut{}).
		Where("id = ?", id).
		Update("section_id", sectionID).Error
}

// Reorder applies all position assignments in one transaction. Unknown ids
// are skipped rather than failing the batch, so a stale client payload
// cannot corrupt the rest of the order.
func (r *shortcutRepository) Reorder(ctx context.Context, items []ReorderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Model(&model.Shortcut{}).
				Where("id = ?", item.ID).
				Update("position", item.Position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *shortcutRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Shortcut{}, id).Error
}
