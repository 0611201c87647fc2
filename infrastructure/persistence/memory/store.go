// Package memory provides an in-memory Store engine with the same
// observable behavior as the DynamoDB engine. It backs tests and local
// development; rows round-trip through the attributevalue codec so item
// structs are exercised exactly as they are against the real table.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"trevelo-backend/infrastructure/persistence/abstractions"
	"trevelo-backend/infrastructure/persistence/keys"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Store is a mutex-guarded in-memory table
type Store struct {
	mu   sync.RWMutex
	rows map[abstractions.Key]map[string]types.AttributeValue
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		rows: make(map[abstractions.Key]map[string]types.AttributeValue),
	}
}

// Get performs a point lookup; a missing row is (false, nil)
func (s *Store) Get(ctx context.Context, key abstractions.Key, out interface{}) (bool, error) {
	s.mu.RLock()
	row, exists := s.rows[key]
	s.mu.RUnlock()

	if !exists {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(row, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal item %s/%s: %w", key.PK, key.SK, err)
	}
	return true, nil
}

// Put unconditionally upserts an item
func (s *Store) Put(ctx context.Context, item interface{}) error {
	key, row, err := marshalItem(item)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rows[key] = row
	s.mu.Unlock()
	return nil
}

// PutPair writes two items under one lock; both land or neither does
func (s *Store) PutPair(ctx context.Context, first, second interface{}) error {
	firstKey, firstRow, err := marshalItem(first)
	if err != nil {
		return err
	}
	secondKey, secondRow, err := marshalItem(second)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rows[firstKey] = firstRow
	s.rows[secondKey] = secondRow
	s.mu.Unlock()
	return nil
}

// Update merges attribute deltas into an existing row
func (s *Store) Update(ctx context.Context, key abstractions.Key, update abstractions.Update, out interface{}) error {
	if len(update.Set) == 0 {
		return fmt.Errorf("update requires at least one attribute delta")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, exists := s.rows[key]
	if !exists {
		return abstractions.ErrNotFound
	}

	if c := update.Condition; c != nil {
		current, ok := row[c.Attribute].(*types.AttributeValueMemberS)
		if !ok || !contains(c.In, current.Value) {
			return abstractions.ErrConditionFailed
		}
	}

	next := make(map[string]types.AttributeValue, len(row)+len(update.Set))
	for name, value := range row {
		next[name] = value
	}
	for name, value := range update.Set {
		marshaled, err := attributevalue.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal attribute %q: %w", name, err)
		}
		next[name] = marshaled
	}
	s.rows[key] = next

	if out != nil {
		if err := attributevalue.UnmarshalMap(next, out); err != nil {
			return fmt.Errorf("failed to unmarshal updated item: %w", err)
		}
	}
	return nil
}

// Delete removes a row; deleting an absent row succeeds
func (s *Store) Delete(ctx context.Context, key abstractions.Key) error {
	s.mu.Lock()
	delete(s.rows, key)
	s.mu.Unlock()
	return nil
}

// QueryPrefix returns all rows under pk whose sort key begins with
// skPrefix, in sort-key order
func (s *Store) QueryPrefix(ctx context.Context, pk, skPrefix string, out interface{}) error {
	s.mu.RLock()
	matched := make([]keyedRow, 0)
	for key, row := range s.rows {
		if key.PK == pk && strings.HasPrefix(key.SK, skPrefix) {
			matched = append(matched, keyedRow{sortKey: key.SK, row: row})
		}
	}
	s.mu.RUnlock()

	return unmarshalSorted(matched, out)
}

// QueryIndex scans the secondary-index projection. The index name is
// ignored; this engine keeps a single GSI1 projection like the table.
func (s *Store) QueryIndex(ctx context.Context, indexName, pk, skPrefix string, out interface{}) error {
	s.mu.RLock()
	matched := make([]keyedRow, 0)
	for _, row := range s.rows {
		gsiPK, ok := row[keys.AttrGSI1PK].(*types.AttributeValueMemberS)
		if !ok || gsiPK.Value != pk {
			continue
		}
		gsiSK, ok := row[keys.AttrGSI1SK].(*types.AttributeValueMemberS)
		if !ok || !strings.HasPrefix(gsiSK.Value, skPrefix) {
			continue
		}
		matched = append(matched, keyedRow{sortKey: gsiSK.Value, row: row})
	}
	s.mu.RUnlock()

	return unmarshalSorted(matched, out)
}

type keyedRow struct {
	sortKey string
	row     map[string]types.AttributeValue
}

// unmarshalSorted orders rows by sort key and unmarshals them into out
func unmarshalSorted(matched []keyedRow, out interface{}) error {
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].sortKey < matched[j].sortKey
	})

	items := make([]map[string]types.AttributeValue, len(matched))
	for i, m := range matched {
		items[i] = m.row
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal query result: %w", err)
	}
	return nil
}

// marshalItem converts an item struct to a row and extracts its key
func marshalItem(item interface{}) (abstractions.Key, map[string]types.AttributeValue, error) {
	row, err := attributevalue.MarshalMap(item)
	if err != nil {
		return abstractions.Key{}, nil, fmt.Errorf("failed to marshal item: %w", err)
	}

	pk, ok := row["PK"].(*types.AttributeValueMemberS)
	if !ok || pk.Value == "" {
		return abstractions.Key{}, nil, fmt.Errorf("item is missing its PK attribute")
	}
	sk, ok := row["SK"].(*types.AttributeValueMemberS)
	if !ok || sk.Value == "" {
		return abstractions.Key{}, nil, fmt.Errorf("item is missing its SK attribute")
	}
	return abstractions.Key{PK: pk.Value, SK: sk.Value}, row, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
