package service

import (
	"context"
	"errors"
	"testing"

	"github.com/portside/portside/internal/app/model"
	"github.com/portside/portside/internal/app/repository"
)

type mockSectionRepository struct {
	listFn    func(ctx context.Context) ([]model.Section, error)
	getFn     func(ctx context.Context, id int64) (*model.Section, error)
	createFn  func(ctx context.Context, section *model.Section) error
	updateFn  func(ctx context.Context, id int64, fields map[string]interface{}) (*model.Section, error)
	toggleFn  func(ctx context.Context, id int64) error
	reorderFn func(ctx context.Context, items []repository.ReorderItem) error
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockSectionRepository) List(ctx context.Context) ([]model.Section, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockSectionRepository) GetByID(ctx context.Context, id int64) (*model.Section, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrSectionNotFound
}

func (m *mockSectionRepository) Create(ctx context.Context, section *model.Section) error {
	if m.createFn != nil {
		return m.createFn(ctx, section)
	}
	return nil
}

func (m *mockSectionRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*model.Section, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return &model.Section{ID: id}, nil
}

func (m *mockSectionRepository) ToggleCollapsed(ctx context.Context, id int64) error {
	if m.toggleFn != nil {
		return m.toggleFn(ctx, id)
	}
	return nil
}

func (m *mockSectionRepository) Reorder(ctx context.Context, items []repository.ReorderItem) error {
	if m.reorderFn != nil {
		return m.reorderFn(ctx, items)
	}
	return nil
}

func (m *mockSectionRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func TestSectionCreate_TrimsName(t *testing.T) {
	var created *model.Section
	repo := &mockSectionRepository{
		createFn: func(ctx context.Context, section *model.Section) error {
			section.ID = 7
			created = section
			return nil
		},
	}
	svc := NewSectionService(repo)

	section, err := svc.Create(context.Background(), "  Media  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created == nil || created.Name != "Media" {
		t.Fatalf("expected trimmed name, got %+v", created)
	}
	if section.ID != 7 {
		t.Fatalf("expected assigned id, got %d", section.ID)
	}
}

func TestSectionCreate_RequiresName(t *testing.T) {
	svc := NewSectionService(&mockSectionRepository{})

	_, err := svc.Create(context.Background(), "   ")
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSectionUpdate_Validation(t *testing.T) {
	svc := NewSectionService(&mockSectionRepository{})

	tests := []struct {
		name  string
		input UpdateSectionInput
	}{
		{"empty patch", UpdateSectionInput{}},
		{"null name", UpdateSectionInput{Name: model.Null[string]()}},
		{"blank name", UpdateSectionInput{Name: model.Some("   ")}},
		{"null collapse flag", UpdateSectionInput{IsCollapsed: model.Null[bool]()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), 1, tt.input)
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSectionUpdate_BuildsFieldMap(t *testing.T) {
	var gotFields map[string]interface{}
	repo := &mockSectionRepository{
		updateFn: func(ctx context.Context, id int64, fields map[string]interface{}) (*model.Section, error) {
			gotFields = fields
			return &model.Section{ID: id, Name: "Media", IsCollapsed: true}, nil
		},
	}
	svc := NewSectionService(repo)

	_, err := svc.Update(context.Background(), 1, UpdateSectionInput{
		Name:        model.Some(" Media "),
		IsCollapsed: model.Some(true),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if gotFields["name"] != "Media" {
		t.Fatalf("expected trimmed name in field map, got %v", gotFields["name"])
	}
	if gotFields["is_collapsed"] != true {
		t.Fatalf("expected is_collapsed in field map, got %v", gotFields["is_collapsed"])
	}
}

func TestSectionUpdate_MissingSectionPassesThrough(t *testing.T) {
	repo := &mockSectionRepository{
		updateFn: func(ctx context.Context, id int64, fields map[string]interface{}) (*model.Section, error) {
			return nil, repository.ErrSectionNotFound
		},
	}
	svc := NewSectionService(repo)

	_, err := svc.Update(context.Background(), 99, UpdateSectionInput{Name: model.Some("x")})
	if !errors.Is(err, repository.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}
