// Package cachekey builds the deterministic cache-key strings used by both
// the read path (to look up) and the cache-update worker (to write). Keys
// are plain, colon-delimited, case-sensitive text that must encode every
// input affecting the underlying query result.
package cachekey

import "fmt"

// none is the literal token used in place of an absent cursor or parent id.
const none = "[NONE]"

// Index distinguishes a forward ("first") listing from a backward ("last")
// one.
type Index string

const (
	IndexFirst Index = "first"
	IndexLast  Index = "last"
)

// Category returns the key for a single category lookup by id.
func Category(id string) string {
	return fmt.Sprintf("categories:id=%s", id)
}

// All returns the key for a top-level (unfiltered) listing.
func All(cursor string, index Index, n int) string {
	return fmt.Sprintf("categories:all:cursor=%s:index=%s:%d", cursorOrNone(cursor), index, n)
}

// SubCategories returns the key for a listing scoped to parentID (or the
// top-level listing, when parentID is empty — note that TopLevelCategories
// and SubCategoriesOf never share a key with All: the "subcategories" form
// always carries an explicit parent= segment, even when empty, so the key
// space for the two operations can never collide).
func SubCategories(parentID, cursor string, index Index, n int) string {
	return fmt.Sprintf("categories:subcategories:parent=%s:cursor=%s:index=%s:%d",
		cursorOrNone(parentID), cursorOrNone(cursor), index, n)
}

func cursorOrNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
