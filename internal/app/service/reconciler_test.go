package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/portside/portside/internal/app/model"
	"github.com/portside/portside/internal/app/repository"
)

// fakeShortcutStore is an in-memory ShortcutRepository with the real read
// order contract, so reconciler tests observe exactly what a refetch would
// return.
type fakeShortcutStore struct {
	rows []model.Shortcut

	setSectionCalls int
	reorderCalls    [][]repository.ReorderItem
	failSetSection  error
	failReorder     error
}

func (f *fakeShortcutStore) List(ctx context.Context) ([]model.Shortcut, error) {
	out := make([]model.Shortcut, len(f.rows))
	copy(out, f.rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.SectionID == nil && b.SectionID != nil:
			return true
		case a.SectionID != nil && b.SectionID == nil:
			return false
		case a.SectionID != nil && b.SectionID != nil && *a.SectionID != *b.SectionID:
			return *a.SectionID < *b.SectionID
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Name < b.Name
	})
	return out, nil
}

func (f *fakeShortcutStore) GetByID(ctx context.Context, id int64) (*model.Shortcut, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			s := f.rows[i]
			return &s, nil
		}
	}
	return nil, repository.ErrShortcutNotFound
}

func (f *fakeShortcutStore) Create(ctx context.Context, shortcut *model.Shortcut) error {
	shortcut.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *shortcut)
	return nil
}

func (f *fakeShortcutStore) Update(ctx context.Context, id int64, fields map[string]interface{}) (*model.Shortcut, error) {
	return nil, errors.New("not used")
}

func (f *fakeShortcutStore) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].IsFavorite = favorite
		}
	}
	return nil
}

func (f *fakeShortcutStore) SetSection(ctx context.Context, id int64, sectionID *int64) error {
	f.setSectionCalls++
	if f.failSetSection != nil {
		return f.failSetSection
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].SectionID = sectionID
		}
	}
	return nil
}

func (f *fakeShortcutStore) Reorder(ctx context.Context, items []repository.ReorderItem) error {
	f.reorderCalls = append(f.reorderCalls, items)
	if f.failReorder != nil {
		return f.failReorder
	}
	for _, item := range items {
		for i := range f.rows {
			if f.rows[i].ID == item.ID {
				f.rows[i].Position = item.Position
			}
		}
	}
	return nil
}

func (f *fakeShortcutStore) Delete(ctx context.Context, id int64) error {
	return nil
}

func sectionPtr(id int64) *int64 { return &id }

func seedStore() *fakeShortcutStore {
	return &fakeShortcutStore{rows: []model.Shortcut{
		{ID: 1, Name: "a", Position: 0},
		{ID: 2, Name: "b", Position: 1},
		{ID: 3, Name: "c", Position: 2},
		{ID: 4, Name: "g1", Position: 0, SectionID: sectionPtr(1)},
	}}
}

func workingNames(r *Reconciler) []string {
	snap := r.Snapshot()
	out := make([]string, len(snap))
	for i, s := range snap {
		out[i] = s.Name
	}
	return out
}

func assertNames(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestReconciler_SameScopeReorder_DragToFront(t *testing.T) {
	store := seedStore()
	r := NewReconciler(store, nil)
	ctx := context.Background()

	// Drag c to the front of the unsectioned scope.
	if err := r.Start(ctx, 3); err != nil {
		t.Fatalf("Start: %v", err)
	}
	shortcutID := int64(1)
	if err := r.Drop(ctx, &DropTarget{ShortcutID: &shortcutID}); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	if len(store.reorderCalls) != 1 {
		t.Fatalf("expected one reorder, got %d", len(store.reorderCalls))
	}
	// Only the three unsectioned shortcuts get new positions.
	if len(store.reorderCalls[0]) != 3 {
		t.Fatalf("expected scope-only reorder, got %v", store.reorderCalls[0])
	}
	assertNames(t, workingNames(r), "c", "a", "b", "g1")
}

func TestReconciler_HoverPreviewThenDropCommitsPreview(t *testing.T) {
	store := seedStore()
	r := NewReconciler(store, nil)
	ctx := context.Background()

	if err := r.Start(ctx, 3); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Hover(1); err != nil {
		t.Fatalf("Hover: %v", err)
	}
	// Preview already shows c,a,b; dropping on the previewed card must not
	// shift c a second time.
	assertNames(t, workingNames(r), "c", "a", "b", "g1")
	shortcutID := int64(1)
	if err := r.Drop(ctx, &DropTarget{ShortcutID: &shortcutID}); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	assertNames(t, workingNames(r), "c", "a", "b", "g1")
}

func TestReconciler_CrossScopeDropOnSectionZone(t *testing.T) {
	store := seedStore()
	r := NewReconciler(store, nil)
	ctx := context.Background()

	if err := r.Start(ctx, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Drop(ctx, &DropTarget{SectionID: sectionPtr(1), OverSectionZone: true}); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	if store.setSectionCalls != 1 {
		t.Fatalf("expected one SetSection, got %d", store.setSectionCalls)
	}
	// Cross-scope moves never issue a reorder; the prior position travels.
	if len(store.reorderCalls) != 0 {
		t.Fatalf("expected no reorder for cross-scope move, got %d", len(store.reorderCalls))
	}
	moved, err := store.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if moved.SectionID == nil || *moved.SectionID != 1 {
		t.Fatalf("expected shortcut in section 1, got %v", moved.SectionID)
	}
	if moved.Position != 0 {
		t.Fatalf("position must travel unchanged, got %d", moved.Position)
	}
}

func TestReconciler_CrossScopeDropOnShortcut(t *testing.T) {
	store := seedStore()
	r := NewReconciler(store, nil)
	ctx := context.Background()

	if err := r.Start(ctx, 2); err != nil {
		t.Fatalf("Start: %v", err)
	}
	shortcutID := int64(4) // lives in section 1
	if err := r.Drop(ctx, &DropTarget{ShortcutID: &shortcutID}); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	if store.setSectionCalls != 1 || len(store.reorderCalls) != 0 {
		t.Fatalf("expected SetSection only, got sets=%d reorders=%d",
			store.setSectionCalls, len(store.reorderCalls))
	}
}

func TestReconciler_SectionZoneWinsOverCard(t *testing.T) {
	store := seedStore()
	r := NewReconciler(store, nil)
	ctx := context.Background()

	if err := r.Start(ctx, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Pointer over both section 1's drop zone and card b: the zone wins,
	// so this is a cross-scope move, not a same-scope reorder.
	shortcutID := int64(2)
	if err := r.Drop(ctx, &DropTarget{
		ShortcutID:      &shortcutID,
		SectionID:       sectionPtr(1),
		OverSectionZone: true,
	}); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	if store.setSectionCalls != 1 || len(store.reorderCalls) != 0 {
		t.Fatalf("expected section target to win, got sets=%d reorders=%d",
			store.setSectionCalls, len(store.reorderCalls))
	}
}

func TestReconciler_DropOnSelfIsNoOp(t *testing.T) {
	store := seedStore()
	r := NewReconciler(store, nil)
	ctx := context.Background()

	if err := r.Start(ctx, 2); err != nil {
		t.Fatalf("Start: %v", err)
	}
	shortcutID := int64(2)
	if err := r.Drop(ctx, &DropTarget{ShortcutID: &shortcutID}); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	if store.setSectionCalls != 0 || len(store.reorderCalls) != 0 {
		t.Fatal("self-drop must not persist anything")
	}
}

func TestReconciler_NoTargetDiscardsPreview(t *testing.T) {
	store := seedStore()
	r := NewReconciler(store, nil)
	ctx := context.Background()

	if err := r.Start(ctx, 3); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Hover(1); err != nil {
		t.Fatalf("Hover: %v", err)
	}
	if err := r.Drop(ctx, nil); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	if store.setSectionCalls != 0 || len(store.reorderCalls) != 0 {
		t.Fatal("cancelled drop must not persist anything")
	}
	// Working list converges back to store truth.
	assertNames(t, workingNames(r), "a", "b", "c", "g1")
}

func TestReconciler_CancelResyncs(t *testing.T) {
	store := seedStore()
	r := NewReconciler(store, nil)
	ctx := context.Background()

	if err := r.Start(ctx, 3); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Hover(1); err != nil {
		t.Fatalf("Hover: %v", err)
	}
	if err := r.Cancel(ctx); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	assertNames(t, workingNames(r), "a", "b", "c", "g1")
	if err := r.Cancel(ctx); !errors.Is(err, ErrNoActiveDrag) {
		t.Fatalf("expected ErrNoActiveDrag, got %v", err)
	}
}

func TestReconciler_PersistFailureResyncs(t *testing.T) {
	store := seedStore()
	store.failReorder = errors.New("disk full")
	r := NewReconciler(store, nil)
	ctx := context.Background()

	if err := r.Start(ctx, 3); err != nil {
		t.Fatalf("Start: %v", err)
	}
	shortcutID := int64(1)
	err := r.Drop(ctx, &DropTarget{ShortcutID: &shortcutID})
	if err == nil {
		t.Fatal("expected drop to surface the persistence failure")
	}

	// The optimistic state is gone; working matches the store again.
	assertNames(t, workingNames(r), "a", "b", "c", "g1")

	// And the reconciler is idle again: a fresh gesture works.
	if err := r.Start(ctx, 1); err != nil {
		t.Fatalf("Start after failure: %v", err)
	}
}

func TestReconciler_SectionMoveFailureResyncs(t *testing.T) {
	store := seedStore()
	store.failSetSection = errors.New("store closed")
	r := NewReconciler(store, nil)
	ctx := context.Background()

	if err := r.Start(ctx, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	err := r.Drop(ctx, &DropTarget{SectionID: sectionPtr(1), OverSectionZone: true})
	if err == nil {
		t.Fatal("expected drop to surface the persistence failure")
	}

	moved, err := store.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if moved.SectionID != nil {
		t.Fatalf("failed move must not change the section, got %v", moved.SectionID)
	}
	assertNames(t, workingNames(r), "a", "b", "c", "g1")
}

func TestReconciler_CrossScopeHoverDoesNotReorder(t *testing.T) {
	store := seedStore()
	r := NewReconciler(store, nil)
	ctx := context.Background()

	if err := r.Start(ctx, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Hover(4); err != nil {
		t.Fatalf("Hover: %v", err)
	}
	assertNames(t, workingNames(r), "a", "b", "c", "g1")
}

func TestReconciler_GestureGating(t *testing.T) {
	store := seedStore()
	r := NewReconciler(store, nil)
	ctx := context.Background()

	if err := r.Hover(1); !errors.Is(err, ErrNoActiveDrag) {
		t.Fatalf("expected ErrNoActiveDrag, got %v", err)
	}
	if err := r.Drop(ctx, nil); !errors.Is(err, ErrNoActiveDrag) {
		t.Fatalf("expected ErrNoActiveDrag, got %v", err)
	}

	if err := r.Start(ctx, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Start(ctx, 2); !errors.Is(err, ErrDragInProgress) {
		t.Fatalf("expected ErrDragInProgress, got %v", err)
	}
}
