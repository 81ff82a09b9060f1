package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geostats/internal/apperr"
)

func TestMemory_OpenCreate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	folder, err := m.EnsureFolder(ctx, "Stats Users", AccessView)
	require.NoError(t, err)
	again, err := m.EnsureFolder(ctx, "Stats Users", AccessView)
	require.NoError(t, err)
	assert.Equal(t, folder, again)
	assert.Equal(t, AccessView, m.AccessOf(folder))

	_, err = m.Open(ctx, folder, "wb")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	wb, err := m.Create(ctx, folder, "wb")
	require.NoError(t, err)
	require.NoError(t, m.Share(ctx, wb.ID(), AccessEdit))
	assert.Equal(t, AccessEdit, m.AccessOf(wb.ID()))

	opened, err := m.Open(ctx, folder, "wb")
	require.NoError(t, err)
	assert.Equal(t, wb.ID(), opened.ID())

	_, err = m.Open(ctx, RootFolder, "wb")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMemory_Tables(t *testing.T) {
	ctx := context.Background()
	wb, err := NewMemory().Create(ctx, RootFolder, "wb")
	require.NoError(t, err)

	_, err = wb.Rows(ctx, "Games")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, wb.Append(ctx, "Games", []string{"x"}), apperr.ErrNotFound)

	created, err := wb.EnsureTable(ctx, "Games", []string{"Date", "Score"})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = wb.EnsureTable(ctx, "Games", []string{"ignored"})
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, wb.Append(ctx, "Games",
		[]string{"2025-01-01T10:00:00Z", "100"},
		[]string{"2025-03-01T10:00:00Z", "300"},
		[]string{"2025-02-01T10:00:00Z", "200"},
	))
	require.NoError(t, wb.SortDesc(ctx, "Games", 0))

	rows, err := wb.Rows(ctx, "Games")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "Score"},
		{"2025-03-01T10:00:00Z", "300"},
		{"2025-02-01T10:00:00Z", "200"},
		{"2025-01-01T10:00:00Z", "100"},
	}, rows)

	rows[1][1] = "mutated"
	fresh, _ := wb.Rows(ctx, "Games")
	assert.Equal(t, "300", fresh[1][1])

	require.NoError(t, wb.Replace(ctx, "Statistics", [][]string{{"title"}}))
	stats, err := wb.Rows(ctx, "Statistics")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"title"}}, stats)
}

func TestCompareCells(t *testing.T) {
	assert.Equal(t, 1, CompareCells("10", "9"))
	assert.Equal(t, -1, CompareCells("2024-12-31T23:59:59Z", "2025-01-01T00:00:00Z"))
	assert.Equal(t, 1, CompareCells("b", "a"))
	assert.Equal(t, 0, CompareCells("1.0", "1"))
}

func TestSortRowsDesc_Stable(t *testing.T) {
	rows := [][]string{{"1", "a"}, {"2", "b"}, {"1", "c"}, {}}
	SortRowsDesc(rows, 0)
	assert.Equal(t, [][]string{{"2", "b"}, {"1", "a"}, {"1", "c"}, {}}, rows)
}
