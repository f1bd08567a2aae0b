package dynamo

import (
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// numValue builds a numeric attribute value for expression placeholders.
func numValue(n int64) types.AttributeValue {
	av, _ := attributevalue.Marshal(n)
	return av
}

// conditionFailed reports whether err is a failed condition check and returns
// the item DynamoDB reported alongside it (nil when the item does not exist or
// ALL_OLD was not requested).
func conditionFailed(err error) (map[string]types.AttributeValue, bool) {
	var ccf *types.ConditionalCheckFailedException
	if !errors.As(err, &ccf) {
		return nil, false
	}
	return ccf.Item, true
}

// expired reports whether a TTL attribute is in the past. DynamoDB deletes
// expired items lazily, so reads must filter them themselves.
func expired(expiresAt int64, now time.Time) bool {
	return expiresAt > 0 && expiresAt <= now.Unix()
}
