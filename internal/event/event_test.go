package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sellershut/categories/internal/event"
)

func TestSubjectParseSubjectBijection(t *testing.T) {
	cases := []event.Event{
		event.SetSingle(event.Categories),
		event.SetBatch(event.Categories),
		event.UpdateSingle(event.Categories),
		event.UpdateBatch(event.Categories),
		event.DeleteSingle(event.Categories),
		event.DeleteBatch(event.Categories),
		event.CacheUpdateSingle(event.Categories),
		event.CacheUpdateBatch(event.Categories),
	}

	for _, want := range cases {
		subject := want.Subject()
		got, err := event.ParseSubject(subject)
		assert.NoError(t, err, subject)
		assert.Equal(t, want, got, subject)
	}
}

func TestParseSubjectRejectsUnknownTokens(t *testing.T) {
	cases := []string{
		"categories.update.index.rename.single",
		"categories.update.index.set.tuple",
		"categories.update.set.tuple",
		"categories.create.index.set.single",
		"categories.update.index.set",
		"not.even.close",
		"",
	}
	for _, s := range cases {
		_, err := event.ParseSubject(s)
		assert.Error(t, err, s)
	}
}

func TestSubjectRenderingExactStrings(t *testing.T) {
	assert.Equal(t, "categories.update.index.set.single", event.SetSingle(event.Categories).Subject())
	assert.Equal(t, "categories.update.index.update.batch", event.UpdateBatch(event.Categories).Subject())
	assert.Equal(t, "categories.update.index.delete.single", event.DeleteSingle(event.Categories).Subject())
	assert.Equal(t, "categories.update.set.single", event.CacheUpdateSingle(event.Categories).Subject())
	assert.Equal(t, "categories.update.set.batch", event.CacheUpdateBatch(event.Categories).Subject())
}
