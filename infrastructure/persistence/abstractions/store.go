package abstractions

import (
	"context"
	"errors"
)

// Sentinel errors returned by Store implementations. Repositories translate
// them into application errors; callers below the repository layer match
// them with errors.Is.
var (
	// ErrNotFound is returned by Update when the addressed row does not
	// exist. Reads signal absence through their found flag instead.
	ErrNotFound = errors.New("item not found")

	// ErrConditionFailed is returned by Update when the row exists but
	// its current state violates the update's condition.
	ErrConditionFailed = errors.New("condition failed")
)

// Key addresses a single row in the table
type Key struct {
	PK string
	SK string
}

// Condition restricts an Update to rows whose attribute currently holds
// one of the given values
type Condition struct {
	Attribute string
	In        []string
}

// Update is a partial attribute merge. Set maps attribute names to their
// new values; Condition, when present, must hold or the update fails with
// ErrConditionFailed.
type Update struct {
	Set       map[string]interface{}
	Condition *Condition
}

// Store is the minimal persistence contract shared by all repositories.
// Items are structs marshaled through the attributevalue codec; every
// engine preserves sort-key ordering for prefix queries so entity blocks
// under a partition stay contiguous.
type Store interface {
	// Get performs a point lookup. A missing row is (false, nil), not an
	// error.
	Get(ctx context.Context, key Key, out interface{}) (bool, error)

	// Put unconditionally upserts an item; the last writer wins.
	Put(ctx context.Context, item interface{}) error

	// PutPair writes two items in a single transaction; either both rows
	// land or neither does.
	PutPair(ctx context.Context, first, second interface{}) error

	// Update merges attribute deltas into an existing row, returning the
	// new row image through out when out is non-nil.
	Update(ctx context.Context, key Key, update Update, out interface{}) error

	// Delete removes a row; deleting an absent row is a no-op.
	Delete(ctx context.Context, key Key) error

	// QueryPrefix returns all rows sharing pk whose sort key begins with
	// skPrefix, in sort-key order, unmarshaled into out (a pointer to a
	// slice).
	QueryPrefix(ctx context.Context, pk, skPrefix string, out interface{}) error

	// QueryIndex is QueryPrefix against the named secondary index.
	QueryIndex(ctx context.Context, indexName, pk, skPrefix string, out interface{}) error
}
