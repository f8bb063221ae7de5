// Package category holds the domain model and the service that implements
// the write path (C6) and both read paths (C7, C8) against a store, a
// cache, and an event publisher.
package category

import "time"

// Category is the sole entity this service manages.
type Category struct {
	ID            string
	Name          string
	SubCategories []string
	ImageURL      *string
	ParentID      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PageInfo describes whether more edges exist beyond either end of a page.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
}

// Edge pairs a node with the opaque cursor that resumes a listing from it.
type Edge struct {
	Cursor string
	Node   Category
}

// Connection is the Relay-style page of results returned by a listing
// query.
type Connection struct {
	Edges    []Edge
	PageInfo PageInfo
}

// Pagination carries the Relay-style connection arguments. Exactly one of
// (First, Last) must be set; After is only valid alongside First, Before
// only alongside Last.
type Pagination struct {
	First  *int32
	After  *string
	Last   *int32
	Before *string
}

// ConnectionCacheRequest is the payload of a batch cache-update event: a
// previously computed connection, tagged with the pagination inputs (and,
// for a sub-listing, the parent id) that produced it, so the cache-update
// worker can derive the exact cache key the read path will later query.
//
// Scoped and ParentID together select exactly one of the three key spaces
// cachekey defines: Scoped false is always cachekey.All; Scoped true with a
// nil ParentID is cachekey.SubCategories("", ...) (the top-level listing);
// Scoped true with a non-nil ParentID is cachekey.SubCategories(*ParentID,
// ...). ParentID alone is not sufficient to distinguish the first two cases,
// since both Categories and the top-level case of SubCategories produce a
// nil ParentID.
type ConnectionCacheRequest struct {
	Connection Connection
	Pagination Pagination
	ParentID   *string
	Scoped     bool
}
