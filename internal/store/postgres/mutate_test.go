package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellershut/categories/internal/category"
	"github.com/sellershut/categories/internal/errs"
)

var rowColumns = []string{"id", "name", "sub_categories", "image_url", "parent_id", "created_at", "updated_at"}

func TestCreateReturnsStoredRow(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(`^INSERT INTO "categories"`).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("cat-1", "Books", "", nil, nil, now, now))

	got, err := s.Create(context.Background(), category.Category{
		ID: "cat-1", Name: "Books", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, "cat-1", got.ID)
	assert.Equal(t, "Books", got.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWrapsDatabaseError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`^INSERT INTO "categories"`).WillReturnError(assertErr("boom"))

	_, err := s.Create(context.Background(), category.Category{ID: "cat-1", Name: "Books"})
	assert.Error(t, err)
	assert.Equal(t, errs.Internal, errs.KindOf(err))
}

func TestUpdateReturnsStoredRowOnMatch(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC().Truncate(time.Second)
	dbCreatedAt := now.Add(-48 * time.Hour)

	mock.ExpectQuery(`^UPDATE "categories" SET`).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("cat-1", "Renamed", "", nil, nil, dbCreatedAt, now))

	// input carries no CreatedAt (the service layer never sets it on update):
	// the returned row's CreatedAt must come from the RETURNING row in the
	// mock, not from this zero value, or the cached/returned entity's
	// created_at gets silently clobbered.
	got, err := s.Update(context.Background(), category.Category{ID: "cat-1", Name: "Renamed", UpdatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, dbCreatedAt, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRejectsMissingRow(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`^UPDATE "categories" SET`).
		WillReturnRows(sqlmock.NewRows(rowColumns))

	_, err := s.Update(context.Background(), category.Category{ID: "missing", Name: "X"})
	assert.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestDeleteSucceedsWhenRowAffected(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`^DELETE FROM "categories"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Delete(context.Background(), "cat-1")
	assert.NoError(t, err)
}

func TestDeleteRejectsWhenNoRowAffected(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`^DELETE FROM "categories"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Delete(context.Background(), "missing")
	assert.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestByIDReturnsDomainCategory(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC().Truncate(time.Second)
	parent := "parent-1"

	mock.ExpectQuery(`^SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("cat-1", "Books", "a,b", nil, &parent, now, now))

	got, err := s.ByID(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.SubCategories)
	assert.Equal(t, &parent, got.ParentID)
}

func TestByIDReturnsNotFoundWhenNoRow(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`^SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows(rowColumns))

	_, err := s.ByID(context.Background(), "missing")
	assert.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}
