package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"trevelo-backend/infrastructure/persistence/abstractions"
	"trevelo-backend/infrastructure/persistence/keys"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Store implements the Store port against a single DynamoDB table
type Store struct {
	client    *awsdynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewStore creates a new DynamoDB-backed store
func NewStore(client *awsdynamodb.Client, tableName string, logger *zap.Logger) abstractions.Store {
	return &Store{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Get performs a point lookup; a missing row is (false, nil)
func (s *Store) Get(ctx context.Context, key abstractions.Key, out interface{}) (bool, error) {
	output, err := s.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       marshalKey(key),
	})
	if err != nil {
		return false, fmt.Errorf("failed to get item %s/%s: %w", key.PK, key.SK, err)
	}
	if output.Item == nil {
		return false, nil
	}

	if err := attributevalue.UnmarshalMap(output.Item, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal item %s/%s: %w", key.PK, key.SK, err)
	}
	return true, nil
}

// Put unconditionally upserts an item
func (s *Store) Put(ctx context.Context, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      marshaled,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

// PutPair writes two items in one TransactWriteItems call so a crash
// cannot leave one row without the other
func (s *Store) PutPair(ctx context.Context, first, second interface{}) error {
	items := make([]types.TransactWriteItem, 0, 2)
	for _, item := range []interface{}{first, second} {
		marshaled, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("failed to marshal transactional item: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(s.tableName),
				Item:      marshaled,
			},
		})
	}

	_, err := s.client.TransactWriteItems(ctx, &awsdynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		return fmt.Errorf("failed to write item pair: %w", err)
	}
	return nil
}

// Update merges attribute deltas into an existing row. The row must exist;
// when a condition is set the row's current attribute value must match one
// of the allowed values.
func (s *Store) Update(ctx context.Context, key abstractions.Key, update abstractions.Update, out interface{}) error {
	if len(update.Set) == 0 {
		return fmt.Errorf("update requires at least one attribute delta")
	}

	var ub expression.UpdateBuilder
	for name, value := range update.Set {
		ub = ub.Set(expression.Name(name), expression.Value(value))
	}

	cond := expression.Name("PK").AttributeExists()
	if c := update.Condition; c != nil && len(c.In) > 0 {
		operands := make([]expression.OperandBuilder, 0, len(c.In))
		for _, v := range c.In {
			operands = append(operands, expression.Value(v))
		}
		cond = cond.And(expression.Name(c.Attribute).In(operands[0], operands[1:]...))
	}

	expr, err := expression.NewBuilder().WithUpdate(ub).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	output, err := s.client.UpdateItem(ctx, &awsdynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       marshalKey(key),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return s.classifyConditionFailure(ctx, key)
		}
		return fmt.Errorf("failed to update item %s/%s: %w", key.PK, key.SK, err)
	}

	if out != nil && output.Attributes != nil {
		if err := attributevalue.UnmarshalMap(output.Attributes, out); err != nil {
			return fmt.Errorf("failed to unmarshal updated item: %w", err)
		}
	}
	return nil
}

// classifyConditionFailure decides whether a failed conditional update hit
// a missing row or a row in the wrong state
func (s *Store) classifyConditionFailure(ctx context.Context, key abstractions.Key) error {
	output, err := s.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       marshalKey(key),
	})
	if err != nil {
		s.logger.Warn("Could not classify conditional failure",
			zap.String("pk", key.PK),
			zap.String("sk", key.SK),
			zap.Error(err),
		)
		return abstractions.ErrConditionFailed
	}
	if output.Item == nil {
		return abstractions.ErrNotFound
	}
	return abstractions.ErrConditionFailed
}

// Delete removes a row; deleting an absent row succeeds
func (s *Store) Delete(ctx context.Context, key abstractions.Key) error {
	_, err := s.client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       marshalKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item %s/%s: %w", key.PK, key.SK, err)
	}
	return nil
}

// QueryPrefix returns all rows under pk whose sort key begins with skPrefix
func (s *Store) QueryPrefix(ctx context.Context, pk, skPrefix string, out interface{}) error {
	keyCond := expression.Key("PK").Equal(expression.Value(pk)).
		And(expression.KeyBeginsWith(expression.Key("SK"), skPrefix))
	return s.query(ctx, keyCond, nil, out)
}

// QueryIndex is QueryPrefix against the named secondary index. An empty
// skPrefix matches the whole index partition.
func (s *Store) QueryIndex(ctx context.Context, indexName, pk, skPrefix string, out interface{}) error {
	keyCond := expression.Key(keys.AttrGSI1PK).Equal(expression.Value(pk))
	if skPrefix != "" {
		keyCond = keyCond.And(expression.KeyBeginsWith(expression.Key(keys.AttrGSI1SK), skPrefix))
	}
	return s.query(ctx, keyCond, aws.String(indexName), out)
}

// query runs a key-condition query to exhaustion and unmarshals the rows
func (s *Store) query(ctx context.Context, keyCond expression.KeyConditionBuilder, indexName *string, out interface{}) error {
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return fmt.Errorf("failed to build query expression: %w", err)
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		output, err := s.client.Query(ctx, &awsdynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			IndexName:                 indexName,
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return fmt.Errorf("failed to query items: %w", err)
		}

		items = append(items, output.Items...)
		if output.LastEvaluatedKey == nil {
			break
		}
		startKey = output.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal query result: %w", err)
	}
	return nil
}

// marshalKey converts a logical key to the table's attribute map
func marshalKey(key abstractions.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: key.PK},
		"SK": &types.AttributeValueMemberS{Value: key.SK},
	}
}
