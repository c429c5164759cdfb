package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/smallwat3r/textdrop/internal/domain"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoStore.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error)
}

// textItem is the table layout. expires_at doubles as the table's TTL
// attribute; DynamoDB removes expired items lazily, so reads check it too.
type textItem struct {
	Code      string `dynamodbav:"code"`
	Body      string `dynamodbav:"body"`
	ExpiresAt int64  `dynamodbav:"expires_at"`
}

// DynamoStore keeps texts in a DynamoDB table keyed by code.
type DynamoStore struct {
	client    DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

func NewDynamoStore(client DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// NewDynamoClient loads the default AWS config for region.
func NewDynamoClient(ctx context.Context, region string) (*dyn.Client, error) {
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dyn.NewFromConfig(cfg), nil
}

func (s *DynamoStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	item, err := attributevalue.MarshalMap(textItem{
		Code:      key,
		Body:      value,
		ExpiresAt: s.nowFunc().Add(ttl).Unix(),
	})
	if err != nil {
		return &domain.StoreError{Op: "set", Err: fmt.Errorf("marshal item: %w", err)}
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: sdkaws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return &domain.StoreError{Op: "set", Err: describeAPIError(err)}
	}
	return nil
}

// GetAndDelete issues a single DeleteItem returning the old image, so at
// most one caller ever receives the body.
func (s *DynamoStore) GetAndDelete(ctx context.Context, key string) (string, error) {
	out, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: sdkaws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"code": &types.AttributeValueMemberS{Value: key},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return "", &domain.StoreError{Op: "getdel", Err: describeAPIError(err)}
	}
	if len(out.Attributes) == 0 {
		return "", domain.ErrNotFound
	}

	var item textItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return "", &domain.StoreError{Op: "getdel", Err: fmt.Errorf("unmarshal item: %w", err)}
	}
	if item.ExpiresAt <= s.nowFunc().Unix() {
		return "", domain.ErrNotFound
	}
	return item.Body, nil
}

// describeAPIError prefixes the service error code when there is one.
func describeAPIError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", apiErr.ErrorCode(), err)
	}
	return err
}
