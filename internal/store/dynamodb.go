package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// DefaultDynamoTable is the results table created on first use.
const DefaultDynamoTable = "certification_quiz_results"

const topicIndex = "TopicIndex"

// DynamoConfig locates the results table.
type DynamoConfig struct {
	Table  string `yaml:"table"`
	Region string `yaml:"region"`

	// Endpoint overrides the service URL, e.g. for DynamoDB Local.
	Endpoint string `yaml:"endpoint"`
}

type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// dynamoBackend keys items by user_id (hash) and timestamp (range, the
// session start as fixed-width RFC 3339). The table is created on first
// use when missing.
type dynamoBackend struct {
	api   dynamoAPI
	table string

	mu    sync.Mutex
	ready bool

	// tableWait bounds how long to wait for a new table to become active.
	tableWait time.Duration
}

// NewDynamoBackend builds a client from the default AWS credential chain.
func NewDynamoBackend(ctx context.Context, cfg DynamoConfig) (Backend, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newDynamoBackend(client, cfg.Table), nil
}

func newDynamoBackend(api dynamoAPI, table string) *dynamoBackend {
	if table == "" {
		table = DefaultDynamoTable
	}
	return &dynamoBackend{api: api, table: table, tableWait: 2 * time.Minute}
}

func (b *dynamoBackend) Put(ctx context.Context, s *quiz.Session) error {
	if err := b.ensureTable(ctx); err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(toRecord(s))
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = b.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(b.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (b *dynamoBackend) Recent(ctx context.Context, userID string, limit int) ([]quiz.Session, error) {
	return b.query(ctx, userID, limit, false)
}

func (b *dynamoBackend) Scan(ctx context.Context, userID string) ([]quiz.Session, error) {
	return b.query(ctx, userID, 0, true)
}

func (b *dynamoBackend) Close() error { return nil }

func (b *dynamoBackend) query(ctx context.Context, userID string, limit int, ascending bool) ([]quiz.Session, error) {
	if err := b.ensureTable(ctx); err != nil {
		return nil, err
	}
	in := &dynamodb.QueryInput{
		TableName:              aws.String(b.table),
		KeyConditionExpression: aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(ascending),
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}

	var out []quiz.Session
	pages := dynamodb.NewQueryPaginator(b.api, in)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query: %w", err)
		}
		var recs []sessionRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &recs); err != nil {
			return nil, fmt.Errorf("decode sessions: %w", err)
		}
		for _, r := range recs {
			out = append(out, r.session())
		}
		if limit > 0 && len(out) >= limit {
			return out[:limit], nil
		}
	}
	return out, nil
}

// ensureTable creates the table once per process if DescribeTable reports
// it missing, then waits for it to become active.
func (b *dynamoBackend) ensureTable(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready {
		return nil
	}

	_, err := b.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(b.table)})
	var notFound *types.ResourceNotFoundException
	switch {
	case err == nil:
		b.ready = true
		return nil
	case !errors.As(err, &notFound):
		return fmt.Errorf("describe table %s: %w", b.table, err)
	}

	_, err = b.api.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(b.table),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("user_id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("timestamp"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("topic"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("user_id"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("timestamp"), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{{
			IndexName: aws.String(topicIndex),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("topic"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("timestamp"), KeyType: types.KeyTypeRange},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}},
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", b.table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(b.api)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(b.table)}, b.tableWait); err != nil {
		return fmt.Errorf("wait for table %s: %w", b.table, err)
	}
	b.ready = true
	return nil
}
