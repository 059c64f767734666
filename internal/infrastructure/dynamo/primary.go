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

// PrimaryStore is the system of record for permanent password hashes and the
// current temporary token, one item per username.
type PrimaryStore struct {
	client API
	table  string
}

func NewPrimaryStore(client API, table string) *PrimaryStore {
	return &PrimaryStore{client: client, table: table}
}

func (r *PrimaryStore) CreateUser(ctx context.Context, username, permanentPasswordHash string) error {
	item, err := attributevalue.MarshalMap(domain.PrimaryRecord{
		Username:              username,
		PermanentPasswordHash: permanentPasswordHash,
	})
	if err != nil {
		return fmt.Errorf("marshal primary record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     item,
		ConditionExpression:      aws.String(condNotExists),
		ExpressionAttributeNames: pkNames(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("username %q: %w", username, domain.ErrUserAlreadyExists)
		}
		return fmt.Errorf("dynamo error: %w", err)
	}
	return nil
}

func (r *PrimaryStore) get(ctx context.Context, username string) (*domain.PrimaryRecord, error) {
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
	var rec domain.PrimaryRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal primary record: %w", err)
	}
	return &rec, nil
}

func (r *PrimaryStore) GetPermanentPasswordHash(ctx context.Context, username string) (string, error) {
	rec, err := r.get(ctx, username)
	if err != nil {
		return "", err
	}
	return rec.PermanentPasswordHash, nil
}

// GetTemporaryToken returns nil with no error when the user exists but no token was ever issued.
func (r *PrimaryStore) GetTemporaryToken(ctx context.Context, username string) (*domain.TemporaryToken, error) {
	rec, err := r.get(ctx, username)
	if err != nil {
		return nil, err
	}
	if rec.TempTokenHash == nil || rec.TempTokenExpiry == nil {
		return nil, nil
	}
	return &domain.TemporaryToken{Hash: *rec.TempTokenHash, Expiry: *rec.TempTokenExpiry}, nil
}

func (r *PrimaryStore) SetTemporaryToken(ctx context.Context, username, tokenHash string, expiry time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldTempTokenHash:   tokenHash,
		fieldTempTokenExpiry: expiry.UTC(),
	})
	if err != nil {
		return err
	}
	return r.update(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       strKey(fieldUsername, username),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String(condExists),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
}

func (r *PrimaryStore) ClearTemporaryToken(ctx context.Context, username string) error {
	expr, names := buildRemoveExpr(fieldTempTokenHash, fieldTempTokenExpiry)
	return r.update(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.table),
		Key:                      strKey(fieldUsername, username),
		UpdateExpression:         aws.String(expr),
		ConditionExpression:      aws.String(condExists),
		ExpressionAttributeNames: names,
	})
}

func (r *PrimaryStore) update(ctx context.Context, in *dynamodb.UpdateItemInput) error {
	if _, err := r.client.UpdateItem(ctx, in); err != nil {
		if isConditionFailed(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("dynamo error: %w", err)
	}
	return nil
}
