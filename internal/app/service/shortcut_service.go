package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/portside/portside/internal/app/model"
	"github.com/portside/portside/internal/app/repository"
)

// ShortcutService owns validation and orchestration for shortcut mutations.
// All rules run before any write, so invalid input never causes a partial
// write.
type ShortcutService interface {
	List(ctx context.Context) ([]model.Shortcut, error)
	Create(ctx context.Context, input CreateShortcutInput) (*model.Shortcut, error)
	Update(ctx context.Context, id int64, input UpdateShortcutInput) (*model.Shortcut, error)
	ToggleFavorite(ctx context.Context, id int64, desired bool) error
	SetSection(ctx context.Context, id int64, sectionID *int64) error
	Reorder(ctx context.Context, items []repository.ReorderItem) error
	Delete(ctx context.Context, id int64) error
}

type shortcutService struct {
	repo repository.ShortcutRepository
}

// NewShortcutService returns a service implementation backed by the given
// repository.
func NewShortcutService(repo repository.ShortcutRepository) ShortcutService {
	return &shortcutService{repo: repo}
}

// CreateShortcutInput captures data required to create a shortcut. A nil
// pointer means the field was not provided.
type CreateShortcutInput struct {
	Name         string
	Description  *string
	URL          *string
	Port         *int
	Icon         *string
	IconType     *string
	ContainerID  *string
	IsFavorite   bool
	UseTailscale bool
	SectionID    *int64
	Position     int
}

// UpdateShortcutInput captures a partial update. Absent fields are left
// unchanged; explicit nulls clear nullable fields. The boolean flags reject
// null because "cleared" has no meaning for them.
type UpdateShortcutInput struct {
	Name         model.Optional[string]
	Description  model.Optional[string]
	URL          model.Optional[string]
	Port         model.Optional[int]
	Icon         model.Optional[string]
	IconType     model.Optional[string]
	ContainerID  model.Optional[string]
	IsFavorite   model.Optional[bool]
	UseTailscale model.Optional[bool]
	SectionID    model.Optional[int64]
	Position     model.Optional[int]
}

func (s *shortcutService) List(ctx context.Context) ([]model.Shortcut, error) {
	shortcuts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shortcuts: %w", err)
	}
	return shortcuts, nil
}

func (s *shortcutService) Create(ctx context.Context, input CreateShortcutInput) (*model.Shortcut, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationf("name is required")
	}

	shortcut := &model.Shortcut{
		Name:         name,
		Icon:         model.DefaultIcon,
		IsFavorite:   input.IsFavorite,
		UseTailscale: input.UseTailscale,
		SectionID:    input.SectionID,
		Position:     input.Position,
	}

	if input.Description != nil {
		if cleaned := cleanDescription(*input.Description); cleaned != "" {
			shortcut.Description = &cleaned
		}
	}

	if input.URL != nil {
		normalized, err := normalizeURL(*input.URL)
		if err != nil {
			return nil, err
		}
		if normalized != "" {
			shortcut.URL = &normalized
		}
	}

	if input.Port != nil {
		if !validPort(*input.Port) {
			return nil, validationf("port must be between 1 and 65535")
		}
		port := *input.Port
		shortcut.Port = &port
	}

	if input.ContainerID != nil {
		if id := strings.TrimSpace(*input.ContainerID); id != "" {
			shortcut.ContainerID = &id
		}
	}

	// A shortcut has to resolve to something, even if that is only "linked
	// to a container with no published port".
	if shortcut.URL == nil && shortcut.Port == nil && shortcut.ContainerID == nil {
		return nil, validationf("either a URL, a port, or a container is required")
	}

	if input.Icon != nil && strings.TrimSpace(*input.Icon) != "" {
		shortcut.Icon = strings.TrimSpace(*input.Icon)
		iconType, err := resolveIconType(input.IconType)
		if err != nil {
			return nil, err
		}
		shortcut.IconType = &iconType
	} else {
		lucide := model.IconTypeLucide
		shortcut.IconType = &lucide
	}

	if err := s.repo.Create(ctx, shortcut); err != nil {
		return nil, fmt.Errorf("create shortcut: %w", err)
	}
	return shortcut, nil
}

func (s *shortcutService) Update(ctx context.Context, id int64, input UpdateShortcutInput) (*model.Shortcut, error) {
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

	if input.Description.Set {
		if !input.Description.Valid {
			fields["description"] = nil
		} else if cleaned := cleanDescription(input.Description.Value); cleaned == "" {
			fields["description"] = nil
		} else {
			fields["description"] = cleaned
		}
	}

	if input.URL.Set {
		if !input.URL.Valid {
			fields["url"] = nil
		} else {
			normalized, err := normalizeURL(input.URL.Value)
			if err != nil {
				return nil, err
			}
			if normalized == "" {
				fields["url"] = nil
			} else {
				fields["url"] = normalized
			}
		}
	}

	if input.Port.Set {
		if !input.Port.Valid {
			fields["port"] = nil
		} else {
			if !validPort(input.Port.Value) {
				return nil, validationf("port must be between 1 and 65535")
			}
			fields["port"] = input.Port.Value
		}
	}

	if input.Icon.Set {
		if !input.Icon.Valid || strings.TrimSpace(input.Icon.Value) == "" {
			fields["icon"] = model.DefaultIcon
			fields["icon_type"] = model.IconTypeLucide
		} else {
			fields["icon"] = strings.TrimSpace(input.Icon.Value)
		}
	}

	if input.IconType.Set {
		if !input.IconType.Valid {
			fields["icon_type"] = nil
		} else {
			iconType, err := resolveIconType(&input.IconType.Value)
			if err != nil {
				return nil, err
			}
			fields["icon_type"] = iconType
		}
	}

	if input.ContainerID.Set {
		if !input.ContainerID.Valid || strings.TrimSpace(input.ContainerID.Value) == "" {
			fields["container_id"] = nil
		} else {
			fields["container_id"] = strings.TrimSpace(input.ContainerID.Value)
		}
	}

	if input.IsFavorite.Set {
		if !input.IsFavorite.Valid {
			return nil, validationf("is_favorite must be a boolean")
		}
		fields["is_favorite"] = input.IsFavorite.Value
	}

	if input.UseTailscale.Set {
		if !input.UseTailscale.Valid {
			return nil, validationf("use_tailscale must be a boolean")
		}
		fields["use_tailscale"] = input.UseTailscale.Value
	}

	if input.SectionID.Set {
		if !input.SectionID.Valid {
			fields["section_id"] = nil
		} else {
			fields["section_id"] = input.SectionID.Value
		}
	}

	if input.Position.Set {
		if !input.Position.Valid {
			return nil, validationf("position must be an integer")
		}
		fields["position"] = input.Position.Value
	}

	shortcut, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update shortcut: %w", err)
	}
	return shortcut, nil
}

// ToggleFavorite sets the flag to the desired value. Setting it to its
// current value, or on an id that is already gone, succeeds as a no-op.
func (s *shortcutService) ToggleFavorite(ctx context.Context, id int64, desired bool) error {
	if err := s.repo.SetFavorite(ctx, id, desired); err != nil {
		return fmt.Errorf("toggle favorite: %w", err)
	}
	return nil
}

func (s *shortcutService) SetSection(ctx context.Context, id int64, sectionID *int64) error {
	if err := s.repo.SetSection(ctx, id, sectionID); err != nil {
		return fmt.Errorf("set section: %w", err)
	}
	return nil
}

func (s *shortcutService) Reorder(ctx context.Context, items []repository.ReorderItem) error {
	if err := s.repo.Reorder(ctx, items); err != nil {
		return fmt.Errorf("reorder shortcuts: %w", err)
	}
	return nil
}

func (s *shortcutService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete shortcut: %w", err)
	}
	return nil
}

func resolveIconType(iconType *string) (string, error) {
	if iconType == nil || *iconType == "" {
		return model.IconTypeLucide, nil
	}
	switch *iconType {
	case model.IconTypeLucide, model.IconTypeImage, model.IconTypeUpload:
		return *iconType, nil
	default:
		return "", validationf("icon_type must be one of: lucide, image, upload")
	}
}
