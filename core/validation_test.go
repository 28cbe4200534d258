package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("list", "email"))
	assert.NoError(t, ValidateIdentifier("list", "_etag"))
	assert.NoError(t, ValidateIdentifier("list", "user-id"))

	err := ValidateIdentifier("list", "name; DROP TABLE")
	assert.Error(t, err)
	assert.Equal(t, KindBadFilter, KindOf(err))

	assert.Error(t, ValidateIdentifier("list", ""))
}

func TestValidatePartitionKey(t *testing.T) {
	assert.NoError(t, ValidatePartitionKey("point", "tenant-1"))
	assert.Error(t, ValidatePartitionKey("point", ""))

	long := make([]byte, MaxPartitionKeyLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidatePartitionKey("point", string(long)))
}

func TestValidateLimit(t *testing.T) {
	assert.NoError(t, ValidateLimit("list", 100))
	assert.Error(t, ValidateLimit("list", 0))
	assert.Error(t, ValidateLimit("list", -1))
	assert.Error(t, ValidateLimit("list", MaxLimit+1))
	assert.NoError(t, ValidateLimit("list", MaxLimit))
}

func TestValidateContinuationToken(t *testing.T) {
	assert.NoError(t, ValidateContinuationToken("list", "opaque-token"))
	assert.Error(t, ValidateContinuationToken("list", ""))
}

func TestValidateOrderDirection(t *testing.T) {
	assert.NoError(t, ValidateOrderDirection("list", OrderAsc))
	assert.NoError(t, ValidateOrderDirection("list", OrderDesc))
	assert.Error(t, ValidateOrderDirection("list", "sideways"))
}

func TestValidateFilterOperator(t *testing.T) {
	for _, op := range []FilterOperator{OpEq, OpNe, OpGt, OpLt, OpContains} {
		assert.NoErrorf(t, ValidateFilterOperator("list", op), "operator %s should validate", op)
	}
	err := ValidateFilterOperator("list", "regex")
	assert.Error(t, err)
	assert.Equal(t, KindBadFilter, KindOf(err))
}

func TestSQLOperator(t *testing.T) {
	assert.Equal(t, "=", SQLOperator(OpEq))
	assert.Equal(t, "!=", SQLOperator(OpNe))
	assert.Equal(t, ">", SQLOperator(OpGt))
	assert.Equal(t, "<", SQLOperator(OpLt))
	assert.Equal(t, "", SQLOperator(OpContains))
}

func TestValidateSampleSize(t *testing.T) {
	assert.NoError(t, ValidateSampleSize("sample", 500))
	assert.Error(t, ValidateSampleSize("sample", 0))
	assert.Error(t, ValidateSampleSize("sample", -5))
	assert.NoError(t, ValidateSampleSize("sample", 50000))
}
