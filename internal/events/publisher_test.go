package events_test

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sellershut/categories/internal/errs"
	"github.com/sellershut/categories/internal/event"
	"github.com/sellershut/categories/internal/events"
)

// fakeJetStream overrides only PublishMsg, embedding the real interface so
// the rest of its large method set is satisfied without hand-writing dozens
// of unused stubs.
type fakeJetStream struct {
	nats.JetStreamContext
	gotSubject string
	gotData    []byte
	gotHeader  nats.Header
	err        error
}

func (f *fakeJetStream) PublishMsg(m *nats.Msg, _ ...nats.PubOpt) (*nats.PubAck, error) {
	f.gotSubject = m.Subject
	f.gotData = m.Data
	f.gotHeader = m.Header
	if f.err != nil {
		return nil, f.err
	}
	return &nats.PubAck{Sequence: 7}, nil
}

func TestPublishSendsSubjectAndPayload(t *testing.T) {
	js := &fakeJetStream{}
	pub := events.New(js, zap.NewNop())

	evt := event.SetSingle(event.Categories)
	err := pub.Publish(context.Background(), evt, []byte("payload"))
	require.NoError(t, err)

	assert.Equal(t, evt.Subject(), js.gotSubject)
	assert.Equal(t, []byte("payload"), js.gotData)
}

func TestPublishInjectsTraceContextHeader(t *testing.T) {
	js := &fakeJetStream{}
	pub := events.New(js, zap.NewNop())

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{1},
		TraceFlags: trace.FlagsSampled,
	}))
	require.NoError(t, pub.Publish(ctx, event.SetSingle(event.Categories), nil))
	assert.NotNil(t, js.gotHeader)
	assert.NotEmpty(t, js.gotHeader.Get("traceparent"))
}

func TestPublishWrapsBrokerRejectionAsPublishRefused(t *testing.T) {
	js := &fakeJetStream{err: assertErr("broker down")}
	pub := events.New(js, zap.NewNop())

	err := pub.Publish(context.Background(), event.SetSingle(event.Categories), nil)
	assert.Error(t, err)
	assert.Equal(t, errs.PublishRefused, errs.KindOf(err))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
