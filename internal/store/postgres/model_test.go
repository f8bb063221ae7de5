package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sellershut/categories/internal/category"
)

func TestToRowToDomainRoundTrip(t *testing.T) {
	imageURL := "https://example.test/x.png"
	parentID := "parent-1"
	want := category.Category{
		ID:            "cat-1",
		Name:          "Electronics",
		SubCategories: []string{"sub-1", "sub-2", "sub-3"},
		ImageURL:      &imageURL,
		ParentID:      &parentID,
		CreatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	got := toRow(want).toDomain()
	assert.Equal(t, want, got)
}

func TestToRowToDomainRoundTripWithNoSubCategories(t *testing.T) {
	want := category.Category{ID: "cat-1", Name: "Root"}
	got := toRow(want).toDomain()
	assert.Equal(t, want, got)
	assert.Nil(t, got.SubCategories)
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "categories", categoryRow{}.TableName())
}

func TestReverse(t *testing.T) {
	rows := []categoryRow{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	reverse(rows)
	assert.Equal(t, []string{"c", "b", "a"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
}

func TestReverseEvenLength(t *testing.T) {
	rows := []categoryRow{{ID: "a"}, {ID: "b"}}
	reverse(rows)
	assert.Equal(t, []string{"b", "a"}, []string{rows[0].ID, rows[1].ID})
}
