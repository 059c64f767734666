package dynamo

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names shared by both credential tables.
const (
	fieldUsername        = "username"
	fieldTempTokenHash   = "temp_token_hash"
	fieldTempTokenExpiry = "temp_token_expiry"
)

// Condition expressions guarding single-row writes. #pk is always bound to fieldUsername.
const (
	condExists    = "attribute_exists(#pk)"
	condNotExists = "attribute_not_exists(#pk)"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

func pkNames() map[string]string {
	return map[string]string{"#pk": fieldUsername}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr converts a map of field->value into a DynamoDB SET expression.
// Keys are sorted so the expression is deterministic. The #pk name is always bound
// so callers can add a key condition.
func buildUpdateExpr(updates map[string]interface{}) (*updateExpr, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ue := &updateExpr{Names: pkNames(), Values: make(map[string]types.AttributeValue)}
	parts := make([]string, 0, len(keys))
	for i, k := range keys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(updates[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", k, err)
		}
		ue.Names[nameKey] = k
		ue.Values[valueKey] = av
		parts = append(parts, fmt.Sprintf("%s = %s", nameKey, valueKey))
	}
	ue.Expr = "SET " + strings.Join(parts, ", ")
	return ue, nil
}

// buildRemoveExpr builds a REMOVE expression for the given attributes.
func buildRemoveExpr(fields ...string) (string, map[string]string) {
	names := pkNames()
	parts := make([]string, 0, len(fields))
	for i, f := range fields {
		nameKey := fmt.Sprintf("#f%d", i)
		names[nameKey] = f
		parts = append(parts, nameKey)
	}
	return "REMOVE " + strings.Join(parts, ", "), names
}
