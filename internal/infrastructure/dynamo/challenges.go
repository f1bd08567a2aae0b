package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-auth-core/internal/domain"
)

// ChallengeTTL bounds how long an unanswered challenge is kept.
const ChallengeTTL = 600 * time.Second

// ChallengeRepo keeps one item per email holding the pending challenge.
type ChallengeRepo struct {
	client    ItemAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

func NewChallengeRepo(client ItemAPI, tableName string) *ChallengeRepo {
	return &ChallengeRepo{client: client, tableName: tableName, ttl: ChallengeTTL, now: time.Now}
}

func (r *ChallengeRepo) Put(ctx context.Context, email, attemptID, code string) error {
	item, err := attributevalue.MarshalMap(domain.Challenge{
		Email:          email,
		LoginAttemptID: attemptID,
		Code:           code,
		ExpiresAt:      r.now().Add(r.ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put challenge: %w", err)
	}
	return nil
}

func (r *ChallengeRepo) Get(ctx context.Context, email string) (*domain.Challenge, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	c, err := r.decode(out.Item)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
	}
	return c, nil
}

func (r *ChallengeRepo) Remove(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEmail, email),
		ConditionExpression:       aws.String("attribute_exists(#e) AND #x > :now"),
		ExpressionAttributeNames:  map[string]string{"#e": fieldEmail, "#x": fieldExpiresAt},
		ExpressionAttributeValues: map[string]types.AttributeValue{":now": numValue(r.now().Unix())},
	})
	if _, ok := conditionFailed(err); ok {
		return fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("remove challenge: %w", err)
	}
	return nil
}

// Consume deletes the item only when the stored pair matches and it has not
// expired. On a failed condition DynamoDB returns the current item, which tells
// a mismatch apart from a missing challenge.
func (r *ChallengeRepo) Consume(ctx context.Context, email, attemptID, code string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldEmail, email),
		ConditionExpression: aws.String("#a = :a AND #c = :c AND #x > :now"),
		ExpressionAttributeNames: map[string]string{
			"#a": fieldLoginAttemptID,
			"#c": fieldCode,
			"#x": fieldExpiresAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":a":   &types.AttributeValueMemberS{Value: attemptID},
			":c":   &types.AttributeValueMemberS{Value: code},
			":now": numValue(r.now().Unix()),
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if item, ok := conditionFailed(err); ok {
		c, derr := r.decode(item)
		if derr != nil {
			return derr
		}
		if c == nil {
			return fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
		}
		return domain.ErrChallengeMismatch
	}
	if err != nil {
		return fmt.Errorf("consume challenge: %w", err)
	}
	return nil
}

// decode returns nil for an absent or expired item.
func (r *ChallengeRepo) decode(item map[string]types.AttributeValue) (*domain.Challenge, error) {
	if len(item) == 0 {
		return nil, nil
	}
	var c domain.Challenge
	if err := attributevalue.UnmarshalMap(item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal challenge: %w", err)
	}
	if expired(c.ExpiresAt, r.now()) {
		return nil, nil
	}
	return &c, nil
}
