package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DefaultDynamoTable is the table used when none is configured.
const DefaultDynamoTable = "illitworld-users"

// DynamoAPI is the subset of the DynamoDB client used by DynamoStore.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore keeps one document per user: the snapshot JSON in "data",
// keyed by "user_id".
type DynamoStore struct {
	client DynamoAPI
	table  string
}

func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	if table == "" {
		table = DefaultDynamoTable
	}
	return &DynamoStore{client: client, table: table}
}

// NewDynamoClient builds a client from the default AWS credential chain.
func NewDynamoClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func (s *DynamoStore) Load(ctx context.Context, userID string) (*Snapshot, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	data, ok := out.Item["data"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("snapshot load: item for %s has no data attribute", userID)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(data.Value), &snap); err != nil {
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	return &snap, nil
}

func (s *DynamoStore) Save(ctx context.Context, userID string, snap *Snapshot) error {
	doc := *snap
	if doc.WatchedVideos == nil {
		doc.WatchedVideos = WatchedVideos{}
	}
	if doc.SelectedBackground == "" {
		doc.SelectedBackground = DefaultBackground
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"user_id":      &types.AttributeValueMemberS{Value: userID},
			"data":         &types.AttributeValueMemberS{Value: string(data)},
			"last_updated": &types.AttributeValueMemberN{Value: strconv.FormatInt(snap.LastUpdated, 10)},
		},
	})
	if err != nil {
		return fmt.Errorf("snapshot save: %w", err)
	}
	return nil
}

func (s *DynamoStore) Close() error { return nil }
