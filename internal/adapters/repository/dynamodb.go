package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/okian/sitefn/internal/domain/model"
)

// DynamoAPI is the slice of the DynamoDB client used by DynamoStore.
type DynamoAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoStore keeps counters as items keyed by "id" with a numeric "count".
type DynamoStore struct {
	api   DynamoAPI
	table string
}

var _ Counter = (*DynamoStore)(nil)

// NewDynamoStore returns a store writing to table.
func NewDynamoStore(api DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{api: api, table: table}
}

// Add issues one UpdateItem with ADD, which creates the item if missing,
// and reads the new value from the same call.
func (s *DynamoStore) Add(ctx context.Context, key string, delta int64) (int64, error) {
	out, err := s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: key},
		},
		UpdateExpression:         aws.String("ADD #count :delta"),
		ExpressionAttributeNames: map[string]string{"#count": model.VisitorCountField},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta": &types.AttributeValueMemberN{Value: strconv.FormatInt(delta, 10)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("dynamodb.UpdateItem: table=%s, %w", s.table, err)
	}

	av, ok := out.Attributes[model.VisitorCountField]
	if !ok {
		return 0, fmt.Errorf("%w: %s missing from UpdateItem result", ErrMalformedRecord, model.VisitorCountField)
	}
	var n int64
	if err := attributevalue.Unmarshal(av, &n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return n, nil
}
