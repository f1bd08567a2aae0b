package sns

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sns.PublishOutput)
	return out, args.Error(1)
}

const topic = "arn:aws:sns:us-east-1:000000000000:auth-notifications"

func TestSender_Send(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		attr, ok := in.MessageAttributes["email"]
		return ok &&
			*in.TopicArn == topic &&
			*in.Subject == "2FA code for your login" &&
			*in.Message == "123456" &&
			*attr.StringValue == "user@example.com"
	})).Return(&sns.PublishOutput{}, nil)

	err := newSender(pub, topic).Send(context.Background(), "user@example.com", "2FA code for your login", "123456")
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestSender_Send_WrapsError(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	err := newSender(pub, topic).Send(context.Background(), "user@example.com", "s", "b")
	assert.ErrorContains(t, err, "publish notification")
	assert.ErrorContains(t, err, "throttled")
}
