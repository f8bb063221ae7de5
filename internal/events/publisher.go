// Package events implements the event publisher (C5): encoding an event to
// its subject, attaching trace/error-tracking propagation headers, and
// publishing to a durable JetStream stream.
package events

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/sellershut/categories/internal/errs"
	"github.com/sellershut/categories/internal/event"
)

// Publisher publishes encoded event payloads to the durable log.
type Publisher interface {
	Publish(ctx context.Context, evt event.Event, payload []byte) error
}

type publisher struct {
	js     nats.JetStreamContext
	logger *zap.Logger
}

// New constructs a Publisher over an already-connected JetStream context.
func New(js nats.JetStreamContext, logger *zap.Logger) Publisher {
	return &publisher{js: js, logger: logger}
}

// headerCarrier adapts nats.Header to OpenTelemetry's TextMapCarrier so
// propagation.TraceContext can inject/extract through it.
type headerCarrier nats.Header

func (h headerCarrier) Get(key string) string { return nats.Header(h).Get(key) }
func (h headerCarrier) Set(key, value string) { nats.Header(h).Set(key, value) }
func (h headerCarrier) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}

// Publish encodes evt to its subject, attaches W3C trace-context and
// (when configured on ctx) Sentry error-tracking propagation headers, and
// publishes payload to the durable stream. A broker rejection is returned
// as an errs.PublishRefused error; the caller decides whether to surface
// or swallow it per the component's error-handling contract.
func (p *publisher) Publish(ctx context.Context, evt event.Event, payload []byte) error {
	subject := evt.Subject()

	header := make(nats.Header)
	propagation.TraceContext{}.Inject(ctx, headerCarrier(header))
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		if trace := hub.Scope().Contexts()["trace"]; trace != nil {
			if id, ok := trace["trace_id"].(string); ok {
				header.Set("sentry-trace", id)
			}
		}
	}

	msg := &nats.Msg{Subject: subject, Data: payload, Header: header}

	ack, err := p.js.PublishMsg(msg, nats.Context(ctx))
	if err != nil {
		p.logger.Warn("event publish refused", zap.String("subject", subject), zap.Error(err))
		return errs.Wrap(errs.PublishRefused, err, "publish event")
	}

	p.logger.Debug("event published",
		zap.String("subject", subject), zap.Uint64("stream_seq", ack.Sequence))
	return nil
}
