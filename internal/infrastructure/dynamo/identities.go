package dynamo

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-auth-core/internal/domain"
)

// IdentityRepo stores identities in a table keyed by email.
type IdentityRepo struct {
	client    ItemAPI
	tableName string
}

func NewIdentityRepo(client ItemAPI, tableName string) *IdentityRepo {
	return &IdentityRepo{client: client, tableName: tableName}
}

func (r *IdentityRepo) Add(ctx context.Context, identity domain.Identity) error {
	item, err := attributevalue.MarshalMap(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#e)"),
		ExpressionAttributeNames: map[string]string{"#e": fieldEmail},
	})
	if _, ok := conditionFailed(err); ok {
		return fmt.Errorf("identity %s: %w", identity.Email, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("put identity: %w", err)
	}
	return nil
}

func (r *IdentityRepo) Get(ctx context.Context, email string) (*domain.Identity, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("identity not found: %w", domain.ErrNotFound)
	}
	var identity domain.Identity
	if err := attributevalue.UnmarshalMap(out.Item, &identity); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}
	return &identity, nil
}

func (r *IdentityRepo) Validate(ctx context.Context, email, password string) error {
	identity, err := r.Get(ctx, email)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(identity.Password), []byte(password)) != 1 {
		return domain.ErrInvalidCredentials
	}
	return nil
}
