// Package event implements the subject grammar used to publish and consume
// category mutation notifications: <entity>.update.<scope>.<operation>[.<cardinality>],
// plus the narrower cache-only form <entity>.update.set.<cardinality>.
package event

import (
	"strings"

	"github.com/sellershut/categories/internal/errs"
)

// Entity names a domain type the event vocabulary applies to. Only
// Categories exists today; the grammar stays open to future entities
// without changing shape.
type Entity string

const Categories Entity = "categories"

// Operation names the kind of change an index-level event describes.
type Operation string

const (
	OpSet    Operation = "set"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Cardinality distinguishes a single-row event from a batch (connection)
// one.
type Cardinality string

const (
	Single Cardinality = "single"
	Batch  Cardinality = "batch"
)

// Kind distinguishes an index-affecting event (set/update/delete against
// the `index` segment) from a cache-only refill event.
type Kind int

const (
	KindIndex Kind = iota
	KindCacheUpdate
)

// Event is a fully-parsed (entity, kind, operation, cardinality) tuple and
// its bijective subject string.
type Event struct {
	Entity      Entity
	Kind        Kind
	Operation   Operation
	Cardinality Cardinality
}

// Convenience constructors matching SPEC_FULL.md §4.3's bijection table.

func SetSingle(e Entity) Event    { return Event{e, KindIndex, OpSet, Single} }
func SetBatch(e Entity) Event     { return Event{e, KindIndex, OpSet, Batch} }
func UpdateSingle(e Entity) Event { return Event{e, KindIndex, OpUpdate, Single} }
func UpdateBatch(e Entity) Event  { return Event{e, KindIndex, OpUpdate, Batch} }
func DeleteSingle(e Entity) Event { return Event{e, KindIndex, OpDelete, Single} }
func DeleteBatch(e Entity) Event  { return Event{e, KindIndex, OpDelete, Batch} }

func CacheUpdateSingle(e Entity) Event { return Event{e, KindCacheUpdate, "", Single} }
func CacheUpdateBatch(e Entity) Event  { return Event{e, KindCacheUpdate, "", Batch} }

// Subject renders e to its wire subject string.
func (e Event) Subject() string {
	switch e.Kind {
	case KindCacheUpdate:
		return string(e.Entity) + ".update.set." + string(e.Cardinality)
	default:
		return string(e.Entity) + ".update.index." + string(e.Operation) + "." + string(e.Cardinality)
	}
}

// ParseSubject reverses Subject. It rejects any string not matching the
// grammar.
func ParseSubject(s string) (Event, error) {
	tokens := strings.Split(s, ".")

	switch len(tokens) {
	case 4:
		// <entity>.update.set.<cardinality>
		entity, verb, scope, cardinality := tokens[0], tokens[1], tokens[2], tokens[3]
		if verb != "update" || scope != "set" {
			return Event{}, badSubject(s)
		}
		card, err := parseCardinality(cardinality)
		if err != nil {
			return Event{}, badSubject(s)
		}
		return Event{Entity(entity), KindCacheUpdate, "", card}, nil

	case 5:
		// <entity>.update.index.<operation>.<cardinality>
		entity, verb, scope, op, cardinality := tokens[0], tokens[1], tokens[2], tokens[3], tokens[4]
		if verb != "update" || scope != "index" {
			return Event{}, badSubject(s)
		}
		operation, err := parseOperation(op)
		if err != nil {
			return Event{}, badSubject(s)
		}
		card, err := parseCardinality(cardinality)
		if err != nil {
			return Event{}, badSubject(s)
		}
		return Event{Entity(entity), KindIndex, operation, card}, nil

	default:
		return Event{}, badSubject(s)
	}
}

func parseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OpSet, OpUpdate, OpDelete:
		return Operation(s), nil
	default:
		return "", errs.Newf(errs.Invalid, "unknown event operation %q", s)
	}
}

func parseCardinality(s string) (Cardinality, error) {
	switch Cardinality(s) {
	case Single, Batch:
		return Cardinality(s), nil
	default:
		return "", errs.Newf(errs.Invalid, "unknown event cardinality %q", s)
	}
}

func badSubject(s string) error {
	return errs.Newf(errs.Invalid, "subject %q does not match the event grammar", s)
}
