package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// DynamoDB rejects items above 400KB
const maxDynamoItemBytes = 400 * 1024

// DynamoDBClient defines the DynamoDB operations the store needs
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type dynamoItem struct {
	Key         string `dynamodbav:"cacheKey"`
	Value       string `dynamodbav:"cacheValue"`
	LastUpdated int64  `dynamodbav:"lastUpdated"`
	TTL         int64  `dynamodbav:"ttl"`
}

// Dynamo stores one item per key. Items carry a TTL attribute so entries
// nobody sweeps still expire on their own.
type Dynamo struct {
	client    DynamoDBClient
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

func NewDynamo(client DynamoDBClient, tableName string, ttl time.Duration) *Dynamo {
	return &Dynamo{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		now:       time.Now,
	}
}

func (d *Dynamo) keyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"cacheKey": &types.AttributeValueMemberS{Value: key},
	}
}

func (d *Dynamo) Get(ctx context.Context, key string) (string, bool, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key:       d.keyAttr(key),
	})
	if err != nil {
		return "", false, fmt.Errorf("getting %s from DynamoDB: %w", key, err)
	}

	if result.Item == nil {
		return "", false, nil
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return "", false, fmt.Errorf("unmarshaling item %s: %w", key, err)
	}

	if item.TTL != 0 && d.now().Unix() >= item.TTL {
		// DynamoDB deletes expired items lazily
		log.Debug().Str("key", key).Msg("Item expired")
		return "", false, nil
	}

	return item.Value, true, nil
}

func (d *Dynamo) Set(ctx context.Context, key, value string) error {
	if len(key)+len(value) > maxDynamoItemBytes {
		return fmt.Errorf("setting %s (%d bytes): %w", key, len(value), ErrQuotaExceeded)
	}

	now := d.now().Unix()
	item, err := attributevalue.MarshalMap(dynamoItem{
		Key:         key,
		Value:       value,
		LastUpdated: now,
		TTL:         now + int64(d.ttl.Seconds()),
	})
	if err != nil {
		return fmt.Errorf("marshaling item %s: %w", key, err)
	}

	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting %s in DynamoDB: %w", key, err)
	}

	return nil
}

func (d *Dynamo) Remove(ctx context.Context, key string) error {
	if _, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       d.keyAttr(key),
	}); err != nil {
		return fmt.Errorf("deleting %s from DynamoDB: %w", key, err)
	}
	return nil
}

func (d *Dynamo) Keys(ctx context.Context) ([]string, error) {
	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName:            aws.String(d.tableName),
		ProjectionExpression: aws.String("cacheKey"),
	})

	keys := []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scanning DynamoDB: %w", err)
		}

		var items []dynamoItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshaling scan page: %w", err)
		}
		for _, item := range items {
			keys = append(keys, item.Key)
		}
	}

	return keys, nil
}

func (d *Dynamo) Close() error {
	return nil
}
