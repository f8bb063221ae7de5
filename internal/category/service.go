package category

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sellershut/categories/internal/cache"
	"github.com/sellershut/categories/internal/cachekey"
	"github.com/sellershut/categories/internal/cursor"
	"github.com/sellershut/categories/internal/errs"
	"github.com/sellershut/categories/internal/event"
	"github.com/sellershut/categories/internal/events"
	"github.com/sellershut/categories/internal/id"
	"github.com/sellershut/categories/internal/wire"
)

// Store is the subset of the Postgres store the service depends on. It is
// defined here, not in internal/store/postgres, so the service stays
// decoupled from the concrete store implementation.
type Store interface {
	Create(ctx context.Context, c Category) (Category, error)
	Update(ctx context.Context, c Category) (Category, error)
	Delete(ctx context.Context, id string) error
	ByID(ctx context.Context, id string) (Category, error)

	Categories(ctx context.Context, forward bool, cur *cursor.Cursor, actualCount int) (Connection, error)
	SubCategoriesOf(ctx context.Context, parentID string, forward bool, cur *cursor.Cursor, actualCount int) (Connection, error)
	TopLevelCategories(ctx context.Context, forward bool, cur *cursor.Cursor, actualCount int) (Connection, error)
}

// Service implements the write path (C6) and both read paths (C7, C8),
// wiring the store, the cache, and the event publisher together per
// spec.md §4.6-§4.8.
type Service struct {
	store      Store
	cache      cache.Client
	publisher  events.Publisher
	queryLimit int
	listingTTL time.Duration
	entityTTL  time.Duration
	logger     *zap.Logger
}

// NewService constructs a Service. queryLimit clamps first/last per §4.8.
// entityTTL/listingTTL are stored on the Service but not used by it: the
// Service only reads the cache, and the cache-update worker writes every
// entry with its own single TTL.
func NewService(store Store, c cache.Client, pub events.Publisher, queryLimit int, entityTTL, listingTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		cache:      c,
		publisher:  pub,
		queryLimit: queryLimit,
		entityTTL:  entityTTL,
		listingTTL: listingTTL,
		logger:     logger,
	}
}

// Create validates input, generates an id, inserts the row, and publishes
// a SetSingle event with the canonical post-state. Event publication
// failures are logged, never surfaced: the store write already succeeded.
func (s *Service) Create(ctx context.Context, input Category) (Category, error) {
	if input.Name == "" {
		return Category{}, errs.New(errs.Invalid, "name must not be empty")
	}

	newID, err := id.New()
	if err != nil {
		return Category{}, err
	}

	now := time.Now().UTC()
	input.ID = newID
	input.CreatedAt = now
	input.UpdatedAt = now

	created, err := s.store.Create(ctx, input)
	if err != nil {
		return Category{}, err
	}

	s.publishEntity(ctx, event.SetSingle(event.Categories), created)
	return created, nil
}

// Update validates input, overwrites the row, and publishes an
// UpdateSingle event with the canonical post-state.
func (s *Service) Update(ctx context.Context, input Category) (Category, error) {
	if input.ID == "" {
		return Category{}, errs.New(errs.Invalid, "id must not be empty")
	}
	if input.Name == "" {
		return Category{}, errs.New(errs.Invalid, "name must not be empty")
	}

	input.UpdatedAt = time.Now().UTC()

	updated, err := s.store.Update(ctx, input)
	if err != nil {
		return Category{}, err
	}

	s.publishEntity(ctx, event.UpdateSingle(event.Categories), updated)
	return updated, nil
}

// Delete removes the row and publishes a DeleteSingle event carrying the
// deleted id.
func (s *Service) Delete(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return errs.New(errs.Invalid, "id must not be empty")
	}

	if err := s.store.Delete(ctx, categoryID); err != nil {
		return err
	}

	s.publishEntity(ctx, event.DeleteSingle(event.Categories), Category{ID: categoryID})
	return nil
}

// CategoryById performs the cache-aside lookup of C7: cache hit returns
// directly; a store hit publishes an UpdateSingle refill event for the
// worker to populate the cache with. NotFound is never cached.
func (s *Service) CategoryById(ctx context.Context, categoryID string) (Category, error) {
	key := cachekey.Category(categoryID)

	if cached, err := s.cache.Get(ctx, key); err == nil && len(cached) > 0 {
		c, err := wire.UnmarshalCategory(cached)
		if err == nil {
			return c, nil
		}
		s.logger.Warn("cache decode failed, falling back to store", zap.String("key", key), zap.Error(err))
	}

	c, err := s.store.ByID(ctx, categoryID)
	if err != nil {
		return Category{}, err
	}

	s.publishEntity(ctx, event.UpdateSingle(event.Categories), c)
	return c, nil
}

func (s *Service) publishEntity(ctx context.Context, evt event.Event, c Category) {
	if err := s.publisher.Publish(ctx, evt, wire.MarshalCategory(c)); err != nil {
		s.logger.Error("failed to publish category event", zap.String("subject", evt.Subject()), zap.Error(err))
	}
}
