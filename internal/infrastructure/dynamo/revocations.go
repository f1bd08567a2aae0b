package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type revokedToken struct {
	Token     string `dynamodbav:"token"`
	ExpiresAt int64  `dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// RevocationRepo keeps banned tokens until the moment they would have expired
// anyway; DynamoDB TTL reaps them afterwards.
type RevocationRepo struct {
	client    ItemAPI
	tableName string
	now       func() time.Time
}

func NewRevocationRepo(client ItemAPI, tableName string) *RevocationRepo {
	return &RevocationRepo{client: client, tableName: tableName, now: time.Now}
}

func (r *RevocationRepo) Ban(ctx context.Context, token string, expiresAt time.Time) error {
	if !expiresAt.After(r.now()) {
		return nil
	}
	item, err := attributevalue.MarshalMap(revokedToken{Token: token, ExpiresAt: expiresAt.Unix()})
	if err != nil {
		return fmt.Errorf("marshal revoked token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("ban token: %w", err)
	}
	return nil
}

func (r *RevocationRepo) IsBanned(ctx context.Context, token string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldToken, token),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	if out.Item == nil {
		return false, nil
	}
	var rt revokedToken
	if err := attributevalue.UnmarshalMap(out.Item, &rt); err != nil {
		return false, fmt.Errorf("unmarshal revoked token: %w", err)
	}
	return !expired(rt.ExpiresAt, r.now()), nil
}
