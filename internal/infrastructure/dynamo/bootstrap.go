package dynamo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-tempcred-api/internal/config"
)

// Bootstrap creates both credential tables if they don't already exist.
// Safe to call on every startup: skips tables that already exist.
func Bootstrap(ctx context.Context, client API, tables config.DynamoTables) error {
	for _, name := range []string{tables.Primary, tables.Secondary} {
		if err := createTable(ctx, client, usernameTable(name)); err != nil {
			return err
		}
	}
	return nil
}

func usernameTable(name string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(fieldUsername), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(fieldUsername), KeyType: types.KeyTypeHash},
		},
	}
}

func createTable(ctx context.Context, client API, input *dynamodb.CreateTableInput) error {
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		// ResourceInUseException means the table already exists, which is fine.
		var riue *types.ResourceInUseException
		if errors.As(err, &riue) {
			return nil
		}
		slog.Warn("could not create table", "table", *input.TableName, "err", err)
		return err
	}
	slog.Info("created table", "table", *input.TableName)
	return nil
}
