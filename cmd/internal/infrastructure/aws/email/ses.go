package email

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"safesound/cmd/internal/service"
)

type SESClient struct {
	client *sesv2.Client
	sender string // e.g. "Safe & Sound <support@aivisual.io>"
}

func NewSESClient() (*SESClient, error) {
	sender := os.Getenv("SES_SENDER_ADDRESS")
	if sender == "" {
		return nil, fmt.Errorf("SES_SENDER_ADDRESS is not set")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(os.Getenv("AWS_REGION")),
	)
	if err != nil {
		return nil, err
	}

	return &SESClient{
		client: sesv2.NewFromConfig(cfg),
		sender: sender,
	}, nil
}

// SendBatch sends each message in turn; recipients are independent, but one
// rejected send fails the whole batch so the caller records a single
// delivery outcome.
func (s *SESClient) SendBatch(ctx context.Context, msgs []*service.EmailMessage) error {
	for _, msg := range msgs {
		input := &sesv2.SendEmailInput{
			FromEmailAddress: aws.String(s.sender),
			Destination: &types.Destination{
				ToAddresses: []string{msg.To},
			},
			Content: &types.EmailContent{
				Simple: &types.Message{
					Subject: &types.Content{Data: aws.String(msg.Subject)},
					Body: &types.Body{
						Text: &types.Content{Data: aws.String(msg.TextBody)},
						Html: &types.Content{Data: aws.String(msg.HTMLBody)},
					},
				},
			},
		}

		if _, err := s.client.SendEmail(ctx, input); err != nil {
			return fmt.Errorf("send to %s: %w", msg.To, err)
		}
	}
	return nil
}
