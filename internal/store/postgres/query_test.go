package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellershut/categories/internal/cursor"
)

// With cur == nil the "other side" count query never reaches the
// connection (see paginate in query.go), so only the page query needs a
// mock expectation. This keeps the dual-goroutine errgroup exercised
// without racing two concurrent mock expectations.
func TestCategoriesFirstPageNoCursor(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`^SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("cat-1", "Books", "", nil, nil, now, now).
			AddRow("cat-2", "Games", "", nil, nil, now.Add(time.Second), now))

	conn, err := s.Categories(context.Background(), true, nil, 2)
	require.NoError(t, err)
	require.Len(t, conn.Edges, 2)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.False(t, conn.PageInfo.HasPreviousPage)
}

func TestCategoriesReportsHasNextPageWhenProbeExceedsCount(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`^SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("cat-1", "Books", "", nil, nil, now, now).
			AddRow("cat-2", "Games", "", nil, nil, now.Add(time.Second), now))

	conn, err := s.Categories(context.Background(), true, nil, 1)
	require.NoError(t, err)
	require.Len(t, conn.Edges, 1)
	assert.True(t, conn.PageInfo.HasNextPage)
}

func TestTopLevelCategoriesScopesToNullParent(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`^SELECT \* FROM "categories" WHERE parent_id IS NULL`).
		WillReturnRows(sqlmock.NewRows(rowColumns))

	conn, err := s.TopLevelCategories(context.Background(), true, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, conn.Edges)
}

func TestSubCategoriesOfScopesToParentID(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`^SELECT \* FROM "categories" WHERE parent_id = \$1`).
		WithArgs("parent-1").
		WillReturnRows(sqlmock.NewRows(rowColumns))

	conn, err := s.SubCategoriesOf(context.Background(), "parent-1", true, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, conn.Edges)
}

func TestCategoriesBackwardPageReversesRows(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()
	c := &cursor.Cursor{CreatedAt: now, ID: "cat-5"}

	mock.ExpectQuery(`^SELECT \* FROM "categories" WHERE`).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("cat-4", "D", "", nil, nil, now.Add(-time.Second), now).
			AddRow("cat-3", "C", "", nil, nil, now.Add(-2*time.Second), now).
			AddRow("cat-2", "B", "", nil, nil, now.Add(-3*time.Second), now))
	mock.ExpectQuery(`^SELECT count\(\*\) FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	conn, err := s.Categories(context.Background(), false, c, 2)
	require.NoError(t, err)
	require.Len(t, conn.Edges, 2)
	assert.Equal(t, "cat-3", conn.Edges[0].Node.ID)
	assert.Equal(t, "cat-4", conn.Edges[1].Node.ID)
	assert.True(t, conn.PageInfo.HasPreviousPage)
	assert.True(t, conn.PageInfo.HasNextPage)
}
