package category

import (
	"context"

	"go.uber.org/zap"

	"github.com/sellershut/categories/internal/cachekey"
	"github.com/sellershut/categories/internal/cursor"
	"github.com/sellershut/categories/internal/errs"
	"github.com/sellershut/categories/internal/event"
	"github.com/sellershut/categories/internal/wire"
)

// resolved is the decoded, validated form of a Pagination: a direction, a
// clamped page size, and an optional decoded cursor.
type resolved struct {
	forward     bool
	actualCount int32
	cur         *cursor.Cursor
	rawCursor   string // the original cursor string, for cache-key/event reuse
	index       cachekey.Index
}

// resolve validates the (first, after?) / (last, before?) combination,
// rejecting (first, before) and (last, after) with Invalid, and clamps N to
// the configured query limit.
func (s *Service) resolve(p Pagination) (resolved, error) {
	switch {
	case p.First != nil && p.Last == nil:
		if p.Before != nil {
			return resolved{}, errs.New(errs.Invalid, "first is not valid together with before")
		}
		n := clamp(*p.First, s.queryLimit)
		r := resolved{forward: true, actualCount: n, index: cachekey.IndexFirst}
		if p.After != nil {
			c, err := cursor.Decode(*p.After)
			if err != nil {
				return resolved{}, err
			}
			r.cur = &c
			r.rawCursor = *p.After
		}
		return r, nil

	case p.Last != nil && p.First == nil:
		if p.After != nil {
			return resolved{}, errs.New(errs.Invalid, "last is not valid together with after")
		}
		n := clamp(*p.Last, s.queryLimit)
		r := resolved{forward: false, actualCount: n, index: cachekey.IndexLast}
		if p.Before != nil {
			c, err := cursor.Decode(*p.Before)
			if err != nil {
				return resolved{}, err
			}
			r.cur = &c
			r.rawCursor = *p.Before
		}
		return r, nil

	default:
		return resolved{}, errs.New(errs.Invalid, "exactly one of first or last must be set")
	}
}

// clamped returns p with its page size replaced by the clamped count, so a
// worker deriving a cache key from it arrives at the key the read path used.
func (r resolved) clamped(p Pagination) Pagination {
	n := r.actualCount
	if r.forward {
		p.First = &n
	} else {
		p.Last = &n
	}
	return p
}

func clamp(n int32, limit int) int32 {
	if int(n) > limit {
		return int32(limit)
	}
	if n < 0 {
		return 0
	}
	return n
}

// Categories lists all categories, cache-aside, per §4.8.
func (s *Service) Categories(ctx context.Context, p Pagination) (Connection, error) {
	r, err := s.resolve(p)
	if err != nil {
		return Connection{}, err
	}
	key := cachekey.All(r.rawCursor, r.index, int(r.actualCount))
	return s.listing(ctx, key, r.clamped(p), nil, false, func() (Connection, error) {
		return s.store.Categories(ctx, r.forward, r.cur, int(r.actualCount))
	})
}

// SubCategories routes to SubCategoriesOf when parentID is present, or to
// TopLevelCategories when it is nil, per the §9 redesign: the wire-level
// request stays a single "SubCategories" call, but internally exactly one
// of the two operations runs, never both.
func (s *Service) SubCategories(ctx context.Context, parentID *string, p Pagination) (Connection, error) {
	r, err := s.resolve(p)
	if err != nil {
		return Connection{}, err
	}

	var parentKey string
	if parentID != nil {
		parentKey = *parentID
	}
	key := cachekey.SubCategories(parentKey, r.rawCursor, r.index, int(r.actualCount))

	return s.listing(ctx, key, r.clamped(p), parentID, true, func() (Connection, error) {
		if parentID != nil {
			return s.store.SubCategoriesOf(ctx, *parentID, r.forward, r.cur, int(r.actualCount))
		}
		return s.store.TopLevelCategories(ctx, r.forward, r.cur, int(r.actualCount))
	})
}

// listing implements the common cache-aside shape of §4.8 step 2-4, 4g: try
// the cache, fall back to query, publish an UpdateBatch refill event.
func (s *Service) listing(ctx context.Context, key string, p Pagination, parentID *string, scoped bool, query func() (Connection, error)) (Connection, error) {
	if cached, err := s.cache.Get(ctx, key); err == nil && len(cached) > 0 {
		ccr, err := wire.UnmarshalConnectionCacheRequest(cached)
		if err == nil {
			return ccr.Connection, nil
		}
		s.logger.Warn("listing cache decode failed, falling back to store", zap.String("key", key), zap.Error(err))
	}

	conn, err := query()
	if err != nil {
		return Connection{}, err
	}

	ccr := ConnectionCacheRequest{Connection: conn, Pagination: p, ParentID: parentID, Scoped: scoped}
	if err := s.publisher.Publish(ctx, event.UpdateBatch(event.Categories), wire.MarshalConnectionCacheRequest(ccr)); err != nil {
		s.logger.Error("failed to publish listing cache-update event", zap.Error(err))
	}

	return conn, nil
}
