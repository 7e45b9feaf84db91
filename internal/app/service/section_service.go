package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/portside/portside/internal/app/model"
	"github.com/portside/portside/internal/app/repository"
)

// SectionService owns validation for section mutations.
type SectionService interface {
	List(ctx context.Context) ([]model.Section, error)
	Create(ctx context.Context, name string) (*model.Section, error)
	Update(ctx context.Context, id int64, input UpdateSectionInput) (*model.Section, error)
	ToggleCollapsed(ctx context.Context, id int64) error
	Reorder(ctx context.Context, items []repository.ReorderItem) error
	Delete(ctx context.Context, id int64) error
}

// UpdateSectionInput is a partial section update; at least one field must be
// present or the call is rejected.
type UpdateSectionInput struct {
	Name        model.Optional[string]
	IsCollapsed model.Optional[bool]
}

type sectionService struct {
	repo repository.SectionRepository
}

// NewSectionService returns a service implementation backed by the given
// repository.
func NewSectionService(repo repository.SectionRepository) SectionService {
	return &sectionService{repo: repo}
}

func (s *sectionService) List(ctx context.Context) ([]model.Section, error) {
	sections, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

func (s *sectionService) Create(ctx context.Context, name string) (*model.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("name is required")
	}

	section := &model.Section{Name: name}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	return section, nil
}

func (s *sectionService) Update(ctx context.Context, id int64, input UpdateSectionInput) (*model.Section, error) {
	if !input.Name.Set && !input.IsCollapsed.Set {
		return nil, validationf("at least one of name or is_collapsed is required")
	}

	fields := map[string]interface{}{}

	if input.Name.Set {
		if !input.Name.Valid {
			return nil, validationf("name cannot be cleared")
		}
		name := strings.TrimSpace(input.Name.Value)
		if name == "" {
			return nil, validationf("name is required")
		}
		fields["name"] = name
	}

	if input.IsCollapsed.Set {
		if !input.IsCollapsed.Valid {
			return nil, validationf("is_collapsed must be a boolean")
		}
		fields["is_collapsed"] = input.IsCollapsed.Value
	}

	section, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update section: %w", err)
	}
	return section, nil
}

func (s *sectionService) ToggleCollapsed(ctx context.Context, id int64) error {
	if err := s.repo.ToggleCollapsed(ctx, id); err != nil {
		return fmt.Errorf("toggle section collapse: %w", err)
	}
	return nil
}

func (s *sectionService) Reorder(ctx context.Context, items []repository.ReorderItem) error {
	if err := s.repo.Reorder(ctx, items); err != nil {
		return fmt.Errorf("reorder sections: %w", err)
	}
	return nil
}

// Delete removes the section; its member shortcuts survive unsectioned (the
// repository performs both effects in one transaction).
func (s *sectionService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}
