package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/portside/portside/internal/app/model"
)

var (
	// ErrSectionNotFound signals that the requested section does not exist.
	ErrSectionNotFound = errors.New("section not found")
)

// SectionRepository defines the data access contract for sections.
type SectionRepository interface {
	List(ctx context.Context) ([]model.Section, error)
	GetByID(ctx context.Context, id int64) (*model.Section, error)
	Create(ctx context.Context, section *model.Section) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*model.Section, error)
	ToggleCollapsed(ctx context.Context, id int64) error
	Reorder(ctx context.Context, items []ReorderItem) error
	Delete(ctx context.Context, id int64) error
}

type sectionRepository struct {
	db *gorm.DB
}

// NewSectionRepository returns a GORM-backed SectionRepository.
func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

func (r *sectionRepository) List(ctx context.Context) ([]model.Section, error) {
	var result []model.Section
	if err := r.db.WithContext(ctx).
		Order("position ASC").
		Order("name ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *sectionRepository) GetByID(ctx context.Context, id int64) (*model.Section, error) {
	var section model.Section
	if err := r.db.WithContext(ctx).First(&section, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return &section, nil
}

// Create appends the section at the end of the global order: position is
// max+1 over the existing sections, or 0 for the first one. The read and the
// insert share a transaction so concurrent creates cannot race the max.
func (r *sectionRepository) Create(ctx context.Context, section *model.Section) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&model.Section{}).
			Select("COALESCE(MAX(position) + 1, 0)").
			Scan(&next).Error; err != nil {
			return err
		}
		section.Position = next
		return tx.Create(section).Error
	})
}

func (r *sectionRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*model.Section, error) {
	if len(fields) > 0 {
		result := r.db.WithContext(ctx).
			Model(&model.Section{}).
			Where("id = ?", id).
			Updates(fields)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrSectionNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// ToggleCollapsed flips the persisted collapse flag. Toggling a section that
// no longer exists is a successful no-op.
func (r *sectionRepository) ToggleCollapsed(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Section{}).
		Where("id = ?", id).
		Update("is_collapsed", gorm.Expr("NOT is_collapsed")).Error
}

// Reorder applies all position assignments in one transaction, skipping
// unknown ids, mirroring the shortcut contract.
func (r *sectionRepository) Reorder(ctx context.Context, items []ReorderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Model(&model.Section{}).
				Where("id = ?", item.ID).
				Update("position", item.Position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the section and returns its members to the unsectioned
// bucket in the same transaction, so no shortcut can ever point at a missing
// section.
func (r *sectionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Shortcut{}).
			Where("section_id = ?", id).
			Update("section_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Section{}, id).Error
	})
}
