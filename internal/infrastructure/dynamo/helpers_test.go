package dynamo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrKey(t *testing.T) {
	key := strKey(fieldEmail, "a@b.com")
	require.Len(t, key, 1)
	s, ok := key[fieldEmail].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", s.Value)
}

func TestNumValue(t *testing.T) {
	n, ok := numValue(1700000000).(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "1700000000", n.Value)
}

func TestConditionFailed(t *testing.T) {
	item := map[string]types.AttributeValue{fieldEmail: &types.AttributeValueMemberS{Value: "a@b.com"}}
	wrapped := fmt.Errorf("operation error: %w", &types.ConditionalCheckFailedException{Item: item})

	got, ok := conditionFailed(wrapped)
	assert.True(t, ok)
	assert.Equal(t, item, got)

	_, ok = conditionFailed(errors.New("boom"))
	assert.False(t, ok)

	_, ok = conditionFailed(nil)
	assert.False(t, ok)
}

func TestExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	assert.True(t, expired(1000, now))
	assert.True(t, expired(999, now))
	assert.False(t, expired(1001, now))
	assert.False(t, expired(0, now), "items without TTL never expire")
}
