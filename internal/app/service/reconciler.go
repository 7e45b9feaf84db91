package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/portside/portside/internal/app/model"
	"github.com/portside/portside/internal/app/repository"
)

var (
	// ErrNoActiveDrag signals a gesture input arriving while idle.
	ErrNoActiveDrag = errors.New("no drag in progress")
	// ErrDragInProgress signals a second pick-up before the first resolved.
	ErrDragInProgress = errors.New("drag already in progress")
)

// DropTarget describes what the pointer was over when the drag was released.
// A nil *DropTarget means the drop had no valid target and the gesture is
// treated as cancelled. When both a section drop zone and a shortcut card
// match, the section zone wins: the coarser target lets users drop into an
// empty section unambiguously.
type DropTarget struct {
	ShortcutID      *int64
	SectionID       *int64
	OverSectionZone bool
}

// Reconciler translates a drag-and-drop gesture into persisted position and
// section changes. It holds a working copy of the shortcut list, reorders it
// optimistically while the pointer hovers same-scope cards, and on drop
// persists either a SetSection (cross-scope move, position travels with the
// shortcut) or a full per-scope Reorder (same-scope move). Every outcome,
// including failure and cancellation, ends with a refetch so the working
// state converges to store truth rather than trusting itself.
//
// A gesture is a sequence of UI events on one goroutine; the reconciler is
// not safe for concurrent gestures.
type Reconciler struct {
	repo   repository.ShortcutRepository
	logger *zap.Logger

	dragging  bool
	activeID  int64
	lastHover int64
	working   []model.Shortcut
}

// NewReconciler returns an idle reconciler using the given repository as the
// source of truth.
func NewReconciler(repo repository.ShortcutRepository, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{repo: repo, logger: logger}
}

// Snapshot returns a copy of the current working list (the optimistic view
// while dragging, store truth otherwise).
func (r *Reconciler) Snapshot() []model.Shortcut {
	out := make([]model.Shortcut, len(r.working))
	copy(out, r.working)
	return out
}

// Resync replaces the working list with store truth.
func (r *Reconciler) Resync(ctx context.Context) error {
	shortcuts, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("resync shortcuts: %w", err)
	}
	r.working = shortcuts
	return nil
}

// Start picks up the shortcut with the given id, remembering its origin.
func (r *Reconciler) Start(ctx context.Context, id int64) error {
	if r.dragging {
		return ErrDragInProgress
	}
	if err := r.Resync(ctx); err != nil {
		return err
	}
	if r.indexOf(id) < 0 {
		return repository.ErrShortcutNotFound
	}
	r.dragging = true
	r.activeID = id
	r.lastHover = 0
	return nil
}

// Hover previews the pointer passing over another shortcut. Same-scope
// hovers reorder the working list optimistically; cross-scope hovers change
// nothing, since a cross-scope move only persists a section change on drop.
func (r *Reconciler) Hover(overID int64) error {
	if !r.dragging {
		return ErrNoActiveDrag
	}
	if overID == r.activeID {
		return nil
	}
	activeIdx, overIdx := r.indexOf(r.activeID), r.indexOf(overID)
	if activeIdx < 0 || overIdx < 0 {
		return nil
	}
	active, over := r.working[activeIdx], r.working[overIdx]
	if active.SameScope(over.SectionID) {
		r.working = arrayMove(r.working, activeIdx, overIdx)
		r.lastHover = overID
	} else {
		r.lastHover = 0
	}
	return nil
}

// Drop commits the gesture. Whatever happens, the reconciler ends idle with
// its working list refetched from the store.
func (r *Reconciler) Drop(ctx context.Context, target *DropTarget) error {
	if !r.dragging {
		return ErrNoActiveDrag
	}
	r.dragging = false

	if target == nil {
		// No valid target: discard the optimistic reorder.
		return r.Resync(ctx)
	}

	activeIdx := r.indexOf(r.activeID)
	if activeIdx < 0 {
		return r.Resync(ctx)
	}
	active := r.working[activeIdx]

	switch {
	case target.OverSectionZone:
		if active.SameScope(target.SectionID) {
			return r.Resync(ctx)
		}
		if err := r.repo.SetSection(ctx, active.ID, target.SectionID); err != nil {
			r.resyncAfterFailure(ctx, err)
			return fmt.Errorf("move to section: %w", err)
		}
		return r.Resync(ctx)

	case target.ShortcutID != nil:
		if *target.ShortcutID == r.activeID {
			return r.Resync(ctx)
		}
		overIdx := r.indexOf(*target.ShortcutID)
		if overIdx < 0 {
			return r.Resync(ctx)
		}
		over := r.working[overIdx]

		if !active.SameScope(over.SectionID) {
			if err := r.repo.SetSection(ctx, active.ID, over.SectionID); err != nil {
				r.resyncAfterFailure(ctx, err)
				return fmt.Errorf("move to section: %w", err)
			}
			return r.Resync(ctx)
		}

		// A drop on the shortcut that was last hover-previewed commits the
		// preview as it stands; re-applying the move would shift the dragged
		// item one slot past where the user saw it land.
		if *target.ShortcutID != r.lastHover {
			r.working = arrayMove(r.working, activeIdx, overIdx)
		}
		items := r.scopeOrder(active.SectionID)
		if err := r.repo.Reorder(ctx, items); err != nil {
			r.resyncAfterFailure(ctx, err)
			return fmt.Errorf("reorder scope: %w", err)
		}
		return r.Resync(ctx)

	default:
		return r.Resync(ctx)
	}
}

// Cancel abandons the gesture without server-side effect.
func (r *Reconciler) Cancel(ctx context.Context) error {
	if !r.dragging {
		return ErrNoActiveDrag
	}
	r.dragging = false
	return r.Resync(ctx)
}

// scopeOrder assigns 0-based positions to the scope's members in their
// current working order.
func (r *Reconciler) scopeOrder(sectionID *int64) []repository.ReorderItem {
	var items []repository.ReorderItem
	for _, s := range r.working {
		if s.SameScope(sectionID) {
			items = append(items, repository.ReorderItem{ID: s.ID, Position: len(items)})
		}
	}
	return items
}

func (r *Reconciler) indexOf(id int64) int {
	for i := range r.working {
		if r.working[i].ID == id {
			return i
		}
	}
	return -1
}

// resyncAfterFailure restores store truth after a failed commit; the commit
// error is what callers care about, so a refetch error is only logged.
func (r *Reconciler) resyncAfterFailure(ctx context.Context, cause error) {
	if err := r.Resync(ctx); err != nil {
		r.logger.Error("resync after failed drop", zap.Error(err), zap.NamedError("cause", cause))
	}
}

// arrayMove returns a copy of items with the element at from removed and
// reinserted so that it ends up at index to.
func arrayMove(items []model.Shortcut, from, to int) []model.Shortcut {
	out := make([]model.Shortcut, len(items))
	copy(out, items)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out, model.Shortcut{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}
