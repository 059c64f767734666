package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"temp_token_hash": "h"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#pk": "username", "#f0": "temp_token_hash"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"temp_token_hash":   "h",
		"temp_token_expiry": "2026-01-01T00:00:00Z",
		"created_at":        "x",
	}
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)
	assert.Equal(t, "created_at", ue1.Names["#f0"])
	assert.Equal(t, "temp_token_expiry", ue1.Names["#f1"])
	assert.Equal(t, "temp_token_hash", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"temp_token_hash": "h"})
	require.NoError(t, err)
	s, ok := ue.Values[":v0"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "h", s.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestBuildRemoveExpr(t *testing.T) {
	expr, names := buildRemoveExpr(fieldTempTokenHash, fieldTempTokenExpiry)
	assert.Equal(t, "REMOVE #f0, #f1", expr)
	assert.Equal(t, map[string]string{"#pk": "username", "#f0": "temp_token_hash", "#f1": "temp_token_expiry"}, names)
}
