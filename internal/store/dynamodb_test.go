package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// fakeDynamo is an in-memory table supporting the calls the backend makes.
type fakeDynamo struct {
	mu      sync.Mutex
	exists  bool
	created *dynamodb.CreateTableInput
	items   []map[string]types.AttributeValue
	putErr  error
	queries int
}

func newFakeDynamo() *fakeDynamo { return &fakeDynamo{} }

func (f *fakeDynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists {
		return nil, &types.ResourceNotFoundException{Message: aws.String("table not found")}
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   in.TableName,
		TableStatus: types.TableStatusActive,
	}}, nil
}

func (f *fakeDynamo) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = in
	f.exists = true
	return &dynamodb.CreateTableOutput{}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.items = append(f.items, in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++

	user := in.ExpressionAttributeValues[":u"].(*types.AttributeValueMemberS).Value
	var matched []map[string]types.AttributeValue
	for _, item := range f.items {
		if str(item["user_id"]) == user {
			matched = append(matched, item)
		}
	}
	asc := in.ScanIndexForward == nil || *in.ScanIndexForward
	sort.Slice(matched, func(i, j int) bool {
		if asc {
			return str(matched[i]["timestamp"]) < str(matched[j]["timestamp"])
		}
		return str(matched[i]["timestamp"]) > str(matched[j]["timestamp"])
	})
	if in.Limit != nil && int(*in.Limit) < len(matched) {
		matched = matched[:*in.Limit]
	}
	return &dynamodb.QueryOutput{Items: matched, Count: int32(len(matched))}, nil
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func TestDynamoCreatesTableOnFirstUse(t *testing.T) {
	fake := newFakeDynamo()
	b := newDynamoBackend(fake, "")
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, sampleSession("s1", "u", "iam", quiz.DifficultyEasy, 1, 1, time.Now())))
	require.NotNil(t, fake.created)
	assert.Equal(t, DefaultDynamoTable, aws.ToString(fake.created.TableName))
	assert.Equal(t, types.BillingModePayPerRequest, fake.created.BillingMode)
	require.Len(t, fake.created.KeySchema, 2)
	assert.Equal(t, "user_id", aws.ToString(fake.created.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, fake.created.KeySchema[0].KeyType)
	assert.Equal(t, "timestamp", aws.ToString(fake.created.KeySchema[1].AttributeName))
	assert.Equal(t, topicIndex, aws.ToString(fake.created.GlobalSecondaryIndexes[0].IndexName))

	// A second write must not try to create the table again.
	fake.created = nil
	require.NoError(t, b.Put(ctx, sampleSession("s2", "u", "iam", quiz.DifficultyEasy, 1, 1, time.Now())))
	assert.Nil(t, fake.created)
}

func TestDynamoItemShape(t *testing.T) {
	fake := newFakeDynamo()
	fake.exists = true
	b := newDynamoBackend(fake, "results")

	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, b.Put(context.Background(), sampleSession("s1", "u", "Lambda", quiz.DifficultyHard, 2, 4, start)))

	item := fake.items[0]
	assert.Equal(t, "u", str(item["user_id"]))
	assert.Equal(t, "2025-01-02T03:04:05.000000000Z", str(item["timestamp"]))
	assert.Equal(t, "Lambda", str(item["topic"]))
	assert.Equal(t, "hard", str(item["difficulty"]))
	pct, ok := item["percentage"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "50", pct.Value)
}

func TestDynamoPutError(t *testing.T) {
	fake := newFakeDynamo()
	fake.exists = true
	fake.putErr = errors.New("throughput exceeded")

	adapter := NewAdapter(newDynamoBackend(fake, ""), "u", nil)
	err := adapter.Save(context.Background(), sampleSession("s1", "", "iam", quiz.DifficultyEasy, 1, 1, time.Now()))

	var storeErr *quiz.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "save", storeErr.Op)
	assert.ErrorIs(t, err, fake.putErr)
}
