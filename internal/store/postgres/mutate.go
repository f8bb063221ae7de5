package postgres

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/sellershut/categories/internal/category"
	"github.com/sellershut/categories/internal/errs"
)

// Create inserts row and returns the canonical post-state via RETURNING *.
// The database is the linearization point for this write.
func (s *Store) Create(ctx context.Context, c category.Category) (category.Category, error) {
	row := toRow(c)
	tx := s.db.WithContext(ctx).Clauses(clause.Returning{}).Create(&row)
	if tx.Error != nil {
		return category.Category{}, classify(tx.Error, "create category")
	}
	return row.toDomain(), nil
}

// Update overwrites the row matching c.ID and returns the canonical
// post-state. The statement is unconditional on version: last writer wins.
//
// row is both the write payload and the RETURNING destination: Model(&row)
// plus Select naming the mutable columns forces GORM to write row's values
// verbatim (including zero values, needed to clear image_url/parent_id) and
// to scan the RETURNING row back into the same struct, so the caller's
// CreatedAt is replaced by the database's rather than echoed back unset.
func (s *Store) Update(ctx context.Context, c category.Category) (category.Category, error) {
	row := toRow(c)
	tx := s.db.WithContext(ctx).
		Model(&row).
		Clauses(clause.Returning{}).
		Where("id = ?", c.ID).
		Select("name", "sub_categories", "image_url", "parent_id", "updated_at").
		Updates(&row)
	if tx.Error != nil {
		return category.Category{}, classify(tx.Error, "update category")
	}
	if tx.RowsAffected == 0 {
		return category.Category{}, errs.New(errs.NotFound, "category not found")
	}
	return row.toDomain(), nil
}

// Delete removes the row matching id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx := s.db.WithContext(ctx).Where("id = ?", id).Delete(&categoryRow{})
	if tx.Error != nil {
		return classify(tx.Error, "delete category")
	}
	if tx.RowsAffected == 0 {
		return errs.New(errs.NotFound, "category not found")
	}
	return nil
}

// ByID fetches a single category by primary key.
func (s *Store) ByID(ctx context.Context, id string) (category.Category, error) {
	var row categoryRow
	tx := s.db.WithContext(ctx).Where("id = ?", id).First(&row)
	if tx.Error != nil {
		return category.Category{}, classify(tx.Error, "get category by id")
	}
	return row.toDomain(), nil
}
