package service

import (
	"context"
	"fmt"

	"github.com/portside/portside/internal/app/model"
	"github.com/portside/portside/internal/app/repository"
)

// Projection derives the home-grid view: favorited shortcuts partitioned
// into the unsectioned bucket plus one group per section in section order.
// It is a pure read over the repositories; the row order they return is the
// only ordering signal, so the view inherits the (section, position, name)
// contract without re-sorting.
type Projection struct {
	shortcuts repository.ShortcutRepository
	sections  repository.SectionRepository
}

// NewProjection returns a projection over the given repositories.
func NewProjection(shortcuts repository.ShortcutRepository, sections repository.SectionRepository) *Projection {
	return &Projection{shortcuts: shortcuts, sections: sections}
}

// Dashboard builds the render view. Sections with no favorited members are
// still emitted so they stay visible and droppable in edit mode.
func (p *Projection) Dashboard(ctx context.Context) (*model.DashboardView, error) {
	sections, err := p.sections.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("project dashboard: %w", err)
	}
	shortcuts, err := p.shortcuts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("project dashboard: %w", err)
	}

	view := &model.DashboardView{
		Unsectioned: []model.Shortcut{},
		Sections:    make([]model.SectionGroup, len(sections)),
	}
	groupIdx := make(map[int64]int, len(sections))
	for i, sec := range sections {
		view.Sections[i] = model.SectionGroup{Section: sec, Shortcuts: []model.Shortcut{}}
		groupIdx[sec.ID] = i
	}

	for _, s := range shortcuts {
		if !s.IsFavorite {
			continue
		}
		if s.SectionID == nil {
			view.Unsectioned = append(view.Unsectioned, s)
			continue
		}
		if i, ok := groupIdx[*s.SectionID]; ok {
			view.Sections[i].Shortcuts = append(view.Sections[i].Shortcuts, s)
		} else {
			// Orphaned reference; should not happen given the delete
			// cascade, but never drop a row from the view over it.
			view.Unsectioned = append(view.Unsectioned, s)
		}
	}

	return view, nil
}
