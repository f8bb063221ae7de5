package postgres

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/sellershut/categories/internal/category"
	"github.com/sellershut/categories/internal/cursor"
)

// scope narrows a listing to top-level rows, rows under a given parent, or
// (for Categories) the whole table. Exactly one of the three listing
// operations below is ever in play per call; none combine filters, per the
// spec.md §9 redesign of the ambiguous original parent_id predicate.
type scope func(*gorm.DB) *gorm.DB

func noScope(tx *gorm.DB) *gorm.DB { return tx }

func parentScope(parentID string) scope {
	return func(tx *gorm.DB) *gorm.DB { return tx.Where("parent_id = ?", parentID) }
}

func topLevelScope(tx *gorm.DB) *gorm.DB { return tx.Where("parent_id IS NULL") }

// Categories lists all categories regardless of parentage.
func (s *Store) Categories(ctx context.Context, forward bool, cur *cursor.Cursor, actualCount int) (category.Connection, error) {
	return s.paginate(ctx, noScope, forward, cur, actualCount)
}

// SubCategoriesOf lists categories whose parent_id equals parentID.
// parent_id IS NULL rows are never included; see TopLevelCategories.
func (s *Store) SubCategoriesOf(ctx context.Context, parentID string, forward bool, cur *cursor.Cursor, actualCount int) (category.Connection, error) {
	return s.paginate(ctx, parentScope(parentID), forward, cur, actualCount)
}

// TopLevelCategories lists categories with no parent (parent_id IS NULL).
// Rows belonging to a parent are never included; see SubCategoriesOf.
func (s *Store) TopLevelCategories(ctx context.Context, forward bool, cur *cursor.Cursor, actualCount int) (category.Connection, error) {
	return s.paginate(ctx, topLevelScope, forward, cur, actualCount)
}

// paginate runs the dual "count-on-other-end" + "page" queries
// concurrently and joins them, per spec.md §4.8. The forward-boundary
// predicate is `(created_at = t* AND id > id*) OR created_at > t*`
// (strict, but equality-broken-by-id) and MUST be preserved exactly: it is
// what prevents row skipping when multiple rows share a created_at.
func (s *Store) paginate(ctx context.Context, sc scope, forward bool, cur *cursor.Cursor, actualCount int) (category.Connection, error) {
	probe := actualCount + 1

	var rows []categoryRow
	var otherCount int64

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tx := sc(s.db.WithContext(gctx))
		if forward {
			if cur != nil {
				tx = tx.Where("(created_at = ? AND id > ?) OR created_at > ?", cur.CreatedAt, cur.ID, cur.CreatedAt)
			}
			tx = tx.Order("created_at ASC, id ASC")
		} else {
			if cur != nil {
				tx = tx.Where("(created_at = ? AND id < ?) OR created_at < ?", cur.CreatedAt, cur.ID, cur.CreatedAt)
			}
			tx = tx.Order("created_at DESC, id DESC")
		}
		if err := tx.Limit(probe).Find(&rows).Error; err != nil {
			return classify(err, "list categories")
		}
		return nil
	})

	g.Go(func() error {
		if cur == nil {
			otherCount = 0
			return nil
		}
		tx := sc(s.db.WithContext(gctx)).Model(&categoryRow{})
		if forward {
			tx = tx.Where("created_at < ? OR (created_at = ? AND id <= ?)", cur.CreatedAt, cur.CreatedAt, cur.ID)
		} else {
			tx = tx.Where("created_at > ? OR (created_at = ? AND id >= ?)", cur.CreatedAt, cur.CreatedAt, cur.ID)
		}
		if err := tx.Count(&otherCount).Error; err != nil {
			return classify(err, "count categories")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return category.Connection{}, err
	}

	hasMore := len(rows) > actualCount
	if hasMore {
		rows = rows[:actualCount]
	}

	if !forward {
		reverse(rows)
	}

	edges := make([]category.Edge, len(rows))
	for i, r := range rows {
		node := r.toDomain()
		edges[i] = category.Edge{Cursor: cursor.Encode(node.CreatedAt, node.ID), Node: node}
	}

	pageInfo := category.PageInfo{}
	if forward {
		pageInfo.HasNextPage = hasMore
		pageInfo.HasPreviousPage = otherCount > 0
	} else {
		pageInfo.HasPreviousPage = hasMore
		pageInfo.HasNextPage = otherCount > 0
	}

	return category.Connection{Edges: edges, PageInfo: pageInfo}, nil
}

func reverse(rows []categoryRow) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
