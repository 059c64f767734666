package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-tempcred-api/internal/domain"
)

// SecondaryStore mirrors the hash and expiry of the current temporary token.
type SecondaryStore struct {
	client API
	table  string
}

func NewSecondaryStore(client API, table string) *SecondaryStore {
	return &SecondaryStore{client: client, table: table}
}

func (r *SecondaryStore) put(ctx context.Context, rec domain.SecondaryRecord, cond *string) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal secondary record: %w", err)
	}
	in := &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}
	if cond != nil {
		in.ConditionExpression = cond
		in.ExpressionAttributeNames = pkNames()
	}
	_, err = r.client.PutItem(ctx, in)
	return err
}

// UpsertTemporaryToken overwrites the whole item, creating it when absent.
func (r *SecondaryStore) UpsertTemporaryToken(ctx context.Context, username, tokenHash string, expiry time.Time) error {
	rec := domain.SecondaryRecord{Username: username, TempTokenHash: tokenHash, TempTokenExpiry: expiry.UTC()}
	if err := r.put(ctx, rec, nil); err != nil {
		return fmt.Errorf("dynamo error: %w", err)
	}
	return nil
}

func (r *SecondaryStore) GetTemporaryToken(ctx context.Context, username string) (*domain.TemporaryToken, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            strKey(fieldUsername, username),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamo error: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrNotFound
	}
	var rec domain.SecondaryRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal secondary record: %w", err)
	}
	return &domain.TemporaryToken{Hash: rec.TempTokenHash, Expiry: rec.TempTokenExpiry}, nil
}

// CreatePlaceholder writes an empty, already-expired record. An existing record is left untouched.
func (r *SecondaryStore) CreatePlaceholder(ctx context.Context, username string) error {
	rec := domain.SecondaryRecord{Username: username, TempTokenExpiry: domain.PlaceholderExpiry}
	if err := r.put(ctx, rec, aws.String(condNotExists)); err != nil {
		if isConditionFailed(err) {
			return nil
		}
		return fmt.Errorf("dynamo error: %w", err)
	}
	return nil
}
