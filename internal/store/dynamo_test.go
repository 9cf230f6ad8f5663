package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Verify fakeDynamoClient implements DynamoDBClient interface
var _ DynamoDBClient = (*fakeDynamoClient)(nil)

// fakeDynamoClient keeps items in a map keyed by cacheKey
type fakeDynamoClient struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	putErr   error
	pageSize int
}

func newFakeDynamoClient() *fakeDynamoClient {
	return &fakeDynamoClient{items: map[string]map[string]types.AttributeValue{}}
}

func keyOf(key map[string]types.AttributeValue) string {
	return key["cacheKey"].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamoClient) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(params.Key)]}, nil
}

func (f *fakeDynamoClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[keyOf(params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoClient) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, keyOf(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

// Scan returns items in pages of pageSize, sorted by key
func (f *fakeDynamoClient) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if params.ExclusiveStartKey != nil {
		last := keyOf(params.ExclusiveStartKey)
		for start < len(keys) && keys[start] <= last {
			start++
		}
	}

	size := f.pageSize
	if size == 0 {
		size = len(keys)
	}
	end := start + size
	if end > len(keys) {
		end = len(keys)
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, map[string]types.AttributeValue{
			"cacheKey": &types.AttributeValueMemberS{Value: k},
		})
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"cacheKey": &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return out, nil
}

func TestDynamoStore(t *testing.T) {
	exerciseStore(t, NewDynamo(newFakeDynamoClient(), "test-table", 48*time.Hour))
}

func TestDynamoKeysPaginates(t *testing.T) {
	ctx := context.Background()
	client := newFakeDynamoClient()
	client.pageSize = 2
	d := NewDynamo(client, "test-table", time.Hour)

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, d.Set(ctx, k, "v"))
	}

	keys, err := d.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, keys)
}

func TestDynamoExpiredItem(t *testing.T) {
	ctx := context.Background()
	d := NewDynamo(newFakeDynamoClient(), "test-table", time.Hour)

	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	require.NoError(t, d.Set(ctx, "k", "v"))

	now = now.Add(2 * time.Hour)
	_, ok, err := d.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDynamoItemTooLarge(t *testing.T) {
	d := NewDynamo(newFakeDynamoClient(), "test-table", time.Hour)

	err := d.Set(context.Background(), "k", strings.Repeat("x", maxDynamoItemBytes))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestDynamoPutError(t *testing.T) {
	client := newFakeDynamoClient()
	client.putErr = errors.New("throttled")
	d := NewDynamo(client, "test-table", time.Hour)

	err := d.Set(context.Background(), "k", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
