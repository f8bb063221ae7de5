package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellershut/categories/internal/cachekey"
	"github.com/sellershut/categories/internal/category"
	"github.com/sellershut/categories/internal/event"
	"github.com/sellershut/categories/internal/wire"
)

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string][]byte)} }

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) { return f.data[key], nil }
func (f *fakeCache) SetEX(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.data[key] = value
	return nil
}
func (f *fakeCache) Del(_ context.Context, key string) error { delete(f.data, key); return nil }
func (f *fakeCache) LPush(context.Context, string, ...[]byte) error { return nil }
func (f *fakeCache) RPush(context.Context, string, ...[]byte) error { return nil }
func (f *fakeCache) LRange(context.Context, string, int64, int64) ([][]byte, error) {
	return nil, nil
}
func (f *fakeCache) LRem(context.Context, string, int64, []byte) error   { return nil }
func (f *fakeCache) ZAdd(context.Context, string, float64, []byte) error { return nil }
func (f *fakeCache) ZPopMin(context.Context, string) ([]byte, float64, error) {
	return nil, 0, nil
}
func (f *fakeCache) ZRangeByScoreWithScores(context.Context, string, float64, float64) ([][]byte, []float64, error) {
	return nil, nil, nil
}
func (f *fakeCache) Close() error { return nil }

func newTestConsumer(c *fakeCache) *Consumer {
	return &Consumer{cache: c, logger: zap.NewNop(), ttl: time.Minute}
}

func TestProcessEventSetSingleWritesEntityCache(t *testing.T) {
	c := newFakeCache()
	consumer := newTestConsumer(c)

	cat := category.Category{ID: "cat-1", Name: "Books"}
	payload := wire.MarshalCategory(cat)

	err := consumer.processEvent(context.Background(), event.SetSingle(event.Categories).Subject(), payload)
	require.NoError(t, err)
	assert.Equal(t, payload, c.data[cachekey.Category("cat-1")])
}

func TestProcessEventUpdateSingleWritesEntityCache(t *testing.T) {
	c := newFakeCache()
	consumer := newTestConsumer(c)

	cat := category.Category{ID: "cat-2", Name: "Books"}
	payload := wire.MarshalCategory(cat)

	err := consumer.processEvent(context.Background(), event.UpdateSingle(event.Categories).Subject(), payload)
	require.NoError(t, err)
	assert.Equal(t, payload, c.data[cachekey.Category("cat-2")])
}

func TestProcessEventDeleteSingleEvictsEntityCache(t *testing.T) {
	c := newFakeCache()
	consumer := newTestConsumer(c)
	c.data[cachekey.Category("cat-3")] = []byte("stale")

	payload := wire.MarshalCategory(category.Category{ID: "cat-3"})
	err := consumer.processEvent(context.Background(), event.DeleteSingle(event.Categories).Subject(), payload)
	require.NoError(t, err)
	_, ok := c.data[cachekey.Category("cat-3")]
	assert.False(t, ok)
}

func TestProcessEventUpdateBatchWritesListingCache(t *testing.T) {
	c := newFakeCache()
	consumer := newTestConsumer(c)

	first := int32(10)
	ccr := category.ConnectionCacheRequest{
		Connection: category.Connection{PageInfo: category.PageInfo{HasNextPage: true}},
		Pagination: category.Pagination{First: &first},
	}
	payload := wire.MarshalConnectionCacheRequest(ccr)

	err := consumer.processEvent(context.Background(), event.UpdateBatch(event.Categories).Subject(), payload)
	require.NoError(t, err)

	key := cachekey.All("", cachekey.IndexFirst, 10)
	assert.Equal(t, payload, c.data[key])
}

func TestProcessEventUpdateBatchWritesSubCategoriesKeyWhenParentSet(t *testing.T) {
	c := newFakeCache()
	consumer := newTestConsumer(c)

	first := int32(10)
	parentID := "parent-1"
	ccr := category.ConnectionCacheRequest{
		Pagination: category.Pagination{First: &first},
		ParentID:   &parentID,
		Scoped:     true,
	}
	payload := wire.MarshalConnectionCacheRequest(ccr)

	err := consumer.processEvent(context.Background(), event.UpdateBatch(event.Categories).Subject(), payload)
	require.NoError(t, err)

	key := cachekey.SubCategories("parent-1", "", cachekey.IndexFirst, 10)
	assert.Equal(t, payload, c.data[key])
}

// TestProcessEventUpdateBatchDistinguishesTopLevelFromAll pins the bug
// spec.md §9 calls out: a top-level SubCategories listing (Scoped true, nil
// ParentID) and the unfiltered Categories listing (Scoped false, nil
// ParentID) both carry a nil ParentID and must not collide on Scoped alone
// being absent — the worker-derived write key must match the read path's
// cachekey.SubCategories("", ...) for the former and cachekey.All(...) for
// the latter, and the two must differ.
func TestProcessEventUpdateBatchDistinguishesTopLevelFromAll(t *testing.T) {
	first := int32(10)

	topLevel := newTestConsumer(newFakeCache())
	topLevelPayload := wire.MarshalConnectionCacheRequest(category.ConnectionCacheRequest{
		Pagination: category.Pagination{First: &first},
		ParentID:   nil,
		Scoped:     true,
	})
	require.NoError(t, topLevel.processEvent(context.Background(), event.UpdateBatch(event.Categories).Subject(), topLevelPayload))

	all := newTestConsumer(newFakeCache())
	allPayload := wire.MarshalConnectionCacheRequest(category.ConnectionCacheRequest{
		Pagination: category.Pagination{First: &first},
		ParentID:   nil,
		Scoped:     false,
	})
	require.NoError(t, all.processEvent(context.Background(), event.UpdateBatch(event.Categories).Subject(), allPayload))

	wantTopLevelKey := cachekey.SubCategories("", "", cachekey.IndexFirst, 10)
	wantAllKey := cachekey.All("", cachekey.IndexFirst, 10)

	assert.NotEqual(t, wantTopLevelKey, wantAllKey)
	assert.Equal(t, topLevelPayload, topLevel.cache.(*fakeCache).data[wantTopLevelKey])
	assert.Equal(t, allPayload, all.cache.(*fakeCache).data[wantAllKey])
	_, allGotTopLevelKey := all.cache.(*fakeCache).data[wantTopLevelKey]
	assert.False(t, allGotTopLevelKey, "Categories() write must not land in the TopLevelCategories key space")
}

func TestProcessEventUnimplementedKindIsNoOp(t *testing.T) {
	c := newFakeCache()
	consumer := newTestConsumer(c)

	err := consumer.processEvent(context.Background(), event.SetBatch(event.Categories).Subject(), []byte("anything"))
	assert.NoError(t, err)
	assert.Empty(t, c.data)
}

func TestProcessEventUnparseableSubjectIsPoisonPill(t *testing.T) {
	consumer := newTestConsumer(newFakeCache())
	err := consumer.processEvent(context.Background(), "not.a.valid.subject.at.all", []byte("x"))
	require.Error(t, err)

	var pp *poisonPillError
	assert.True(t, errAs(err, &pp))
}

func TestProcessEventUndecodablePayloadIsPoisonPill(t *testing.T) {
	consumer := newTestConsumer(newFakeCache())
	err := consumer.processEvent(context.Background(), event.SetSingle(event.Categories).Subject(), []byte{0xff, 0xff, 0xff})
	require.Error(t, err)

	var pp *poisonPillError
	assert.True(t, errAs(err, &pp))
}
