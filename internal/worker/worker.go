// Package worker implements the cache-update worker (C9): durable
// JetStream pull consumers that translate events into cache writes or
// evictions, the sole writer of cache entries in this system.
//
// Grounded on the NATS JetStream pull-consumer shape in
// other_examples/.../consumer.go (PullSubscribe + BindStream, a background
// Fetch loop, and a poison-pill type distinguishing Term from Nak).
package worker

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sellershut/categories/internal/cache"
	"github.com/sellershut/categories/internal/cachekey"
	"github.com/sellershut/categories/internal/errs"
	"github.com/sellershut/categories/internal/event"
	"github.com/sellershut/categories/internal/wire"
)

var tracer = otel.Tracer("github.com/sellershut/categories/internal/worker")

// poisonPillError marks a message as undecodable/unrecoverable: the worker
// logs its full payload and terminates delivery to avoid a redelivery loop,
// per spec.md §4.9 and §9's documented open knob. Cache-write failures are
// terminated too, without the payload in the log line.
type poisonPillError struct{ cause error }

func (e *poisonPillError) Error() string { return e.cause.Error() }
func (e *poisonPillError) Unwrap() error { return e.cause }

// Consumer binds one durable pull subscription to one event-publishing
// service's subjects and drives its fetch loop.
type Consumer struct {
	js          nats.JetStreamContext
	cache       cache.Client
	logger      *zap.Logger
	streamName  string
	durableName string
	subjects    []string
	ttl         time.Duration
	batchSize   int
	fetchWait   time.Duration
}

// Config configures a single Consumer.
type Config struct {
	StreamName  string
	DurableName string
	Subjects    []string
	TTL         time.Duration
	BatchSize   int
	FetchWait   time.Duration
}

// NewConsumer constructs a Consumer over an already-connected JetStream
// context.
func NewConsumer(js nats.JetStreamContext, c cache.Client, logger *zap.Logger, cfg Config) *Consumer {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 10
	}
	wait := cfg.FetchWait
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &Consumer{
		js: js, cache: c, logger: logger,
		streamName: cfg.StreamName, durableName: cfg.DurableName, subjects: cfg.Subjects,
		ttl: cfg.TTL, batchSize: batch, fetchWait: wait,
	}
}

// Run binds the pull subscription and processes messages until ctx is
// cancelled. A cancelled run drains its in-flight message (completes the
// cache write and ack) before returning, per spec.md §5's cancellation
// contract: the fetch loop only checks ctx between messages, never mid-apply.
func (c *Consumer) Run(ctx context.Context) error {
	subs := make([]*nats.Subscription, 0, len(c.subjects))
	for _, subj := range c.subjects {
		sub, err := c.js.PullSubscribe(subj, c.durableName, nats.BindStream(c.streamName))
		if err != nil {
			return errs.Wrap(errs.Internal, err, "bind pull subscription")
		}
		subs = append(subs, sub)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		for _, sub := range subs {
			msgs, err := sub.Fetch(c.batchSize, nats.MaxWait(c.fetchWait))
			if err != nil {
				if err == nats.ErrTimeout {
					continue
				}
				c.logger.Warn("fetch failed", zap.Error(err))
				continue
			}
			for _, msg := range msgs {
				c.processMessage(ctx, msg)
			}
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg *nats.Msg) {
	msgCtx := extractTraceContext(ctx, msg)
	msgCtx, span := tracer.Start(msgCtx, "worker.processEvent", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	if err := c.processEvent(msgCtx, msg.Subject, msg.Data); err != nil {
		span.RecordError(err)
		var pp *poisonPillError
		if errAs(err, &pp) {
			c.logger.Error("terminating undecodable message",
				zap.String("subject", msg.Subject), zap.ByteString("payload", msg.Data), zap.Error(err))
			_ = msg.Term()
			return
		}
		c.logger.Error("terminating message after cache write failure", zap.String("subject", msg.Subject), zap.Error(err))
		_ = msg.Term()
		return
	}

	_ = msg.Ack()
}

// processEvent implements the operation table of spec.md §4.9.
func (c *Consumer) processEvent(ctx context.Context, subject string, payload []byte) error {
	evt, err := event.ParseSubject(subject)
	if err != nil {
		return &poisonPillError{cause: err}
	}

	switch {
	case evt.Kind == event.KindIndex && evt.Operation == event.OpSet && evt.Cardinality == event.Single:
		return c.applyEntity(ctx, payload)
	case evt.Kind == event.KindIndex && evt.Operation == event.OpUpdate && evt.Cardinality == event.Single:
		return c.applyEntity(ctx, payload)
	case evt.Kind == event.KindIndex && evt.Operation == event.OpUpdate && evt.Cardinality == event.Batch:
		return c.applyListing(ctx, payload)
	case evt.Kind == event.KindIndex && evt.Operation == event.OpDelete && evt.Cardinality == event.Single:
		return c.applyDelete(ctx, payload)
	default:
		// SetBatch / DeleteBatch / CacheUpdate*: reserved, unimplemented.
		c.logger.Warn("dropping message for unimplemented event kind", zap.String("subject", subject))
		return nil
	}
}

func (c *Consumer) applyEntity(ctx context.Context, payload []byte) error {
	cat, err := wire.UnmarshalCategory(payload)
	if err != nil {
		return &poisonPillError{cause: err}
	}
	key := cachekey.Category(cat.ID)
	if err := c.cache.SetEX(ctx, key, payload, c.ttl); err != nil {
		return err
	}
	return nil
}

func (c *Consumer) applyDelete(ctx context.Context, payload []byte) error {
	cat, err := wire.UnmarshalCategory(payload)
	if err != nil {
		return &poisonPillError{cause: err}
	}
	return c.cache.Del(ctx, cachekey.Category(cat.ID))
}

func (c *Consumer) applyListing(ctx context.Context, payload []byte) error {
	ccr, err := wire.UnmarshalConnectionCacheRequest(payload)
	if err != nil {
		return &poisonPillError{cause: err}
	}

	index := cachekey.IndexFirst
	n := 0
	var rawCursor string
	switch {
	case ccr.Pagination.First != nil:
		index = cachekey.IndexFirst
		n = int(*ccr.Pagination.First)
		if ccr.Pagination.After != nil {
			rawCursor = *ccr.Pagination.After
		}
	case ccr.Pagination.Last != nil:
		index = cachekey.IndexLast
		n = int(*ccr.Pagination.Last)
		if ccr.Pagination.Before != nil {
			rawCursor = *ccr.Pagination.Before
		}
	}

	// Scoped, not ParentID alone, picks the key space: Categories() and the
	// top-level case of SubCategories() both carry a nil ParentID, but land
	// in distinct key spaces (cachekey.All vs cachekey.SubCategories("", ...)).
	// See category.ConnectionCacheRequest's doc comment.
	var key string
	if ccr.Scoped {
		var parentID string
		if ccr.ParentID != nil {
			parentID = *ccr.ParentID
		}
		key = cachekey.SubCategories(parentID, rawCursor, index, n)
	} else {
		key = cachekey.All(rawCursor, index, n)
	}

	return c.cache.SetEX(ctx, key, payload, c.ttl)
}

func extractTraceContext(ctx context.Context, msg *nats.Msg) context.Context {
	if msg.Header == nil {
		return ctx
	}
	carrier := make(propagation.MapCarrier, len(msg.Header))
	for k := range msg.Header {
		carrier.Set(k, msg.Header.Get(k))
	}
	return propagation.TraceContext{}.Extract(ctx, carrier)
}

// errAs is a tiny errors.As shim kept local to avoid importing the
// cockroachdb/errors package purely for a type assertion this simple.
func errAs(err error, target **poisonPillError) bool {
	for err != nil {
		if pp, ok := err.(*poisonPillError); ok {
			*target = pp
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
