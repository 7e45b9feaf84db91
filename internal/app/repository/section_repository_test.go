package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portside/portside/internal/app/model"
)

func TestSectionCreate_AppendsAtEnd(t *testing.T) {
	db := newTestDB(t)
	repo := NewSectionRepository(db)
	ctx := context.Background()

	first := model.Section{Name: "Media"}
	require.NoError(t, repo.Create(ctx, &first))
	assert.Equal(t, 0, first.Position)

	second := model.Section{Name: "Infra"}
	require.NoError(t, repo.Create(ctx, &second))
	assert.Equal(t, 1, second.Position)

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Media", got[0].Name)
	assert.Equal(t, "Infra", got[1].Name)
}

func TestSectionDelete_CascadesMembersToUnsectioned(t *testing.T) {
	db := newTestDB(t)
	sections := NewSectionRepository(db)
	shortcuts := NewShortcutRepository(db)
	ctx := context.Background()

	section := model.Section{Name: "Doomed"}
	require.NoError(t, sections.Create(ctx, &section))

	a := seedShortcut(t, shortcuts, model.Shortcut{Name: "a", Port: intPtr(1), SectionID: &section.ID})
	b := seedShortcut(t, shortcuts, model.Shortcut{Name: "b", Port: intPtr(2), SectionID: &section.ID})
	outside := seedShortcut(t, shortcuts, model.Shortcut{Name: "c", Port: intPtr(3)})

	require.NoError(t, sections.Delete(ctx, section.ID))

	// The section is gone and no shortcut points at it anymore.
	remaining, err := sections.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	for _, id := range []int64{a.ID, b.ID, outside.ID} {
		s, err := shortcuts.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, s.SectionID)
	}
}

func TestSectionDelete_EmptySection(t *testing.T) {
	db := newTestDB(t)
	repo := NewSectionRepository(db)
	ctx := context.Background()

	section := model.Section{Name: "Empty"}
	require.NoError(t, repo.Create(ctx, &section))
	require.NoError(t, repo.Delete(ctx, section.ID))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSectionToggleCollapsed(t *testing.T) {
	db := newTestDB(t)
	repo := NewSectionRepository(db)
	ctx := context.Background()

	section := model.Section{Name: "Media"}
	require.NoError(t, repo.Create(ctx, &section))

	require.NoError(t, repo.ToggleCollapsed(ctx, section.ID))
	got, err := repo.GetByID(ctx, section.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCollapsed)

	require.NoError(t, repo.ToggleCollapsed(ctx, section.ID))
	got, err = repo.GetByID(ctx, section.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCollapsed)

	// Toggling a missing section is a no-op success.
	require.NoError(t, repo.ToggleCollapsed(ctx, 999999))
}

func TestSectionReorder(t *testing.T) {
	db := newTestDB(t)
	repo := NewSectionRepository(db)
	ctx := context.Background()

	a := model.Section{Name: "A"}
	b := model.Section{Name: "B"}
	require.NoError(t, repo.Create(ctx, &a))
	require.NoError(t, repo.Create(ctx, &b))

	require.NoError(t, repo.Reorder(ctx, []ReorderItem{
		{ID: b.ID, Position: 0},
		{ID: a.ID, Position: 1},
	}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "A", got[1].Name)
}

func TestSectionUpdate_MissingSection(t *testing.T) {
	db := newTestDB(t)
	repo := NewSectionRepository(db)

	_, err := repo.Update(context.Background(), 12345, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrSectionNotFound)
}
