package sender

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ulrichyv/mailing/internal/models"
)

// SESSender sends email through AWS SES (SDK v2), as an alternative to the
// operator's own SMTP server. Selected with DELIVERY_PROVIDER=ses.
type SESSender struct {
	client *sesv2.Client
	from   string
}

// NewSESSender builds the SES client from static credentials.
func NewSESSender(ctx context.Context, accessKey, secretKey, region, from string) (*SESSender, error) {
	if accessKey == "" || secretKey == "" {
		return nil, models.ErrInvalidInput("SES access key and secret key are required")
	}
	if from == "" {
		return nil, models.ErrInvalidInput("SES sender address is required")
	}
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AWS config: %w", err)
	}

	return &SESSender{
		client: sesv2.NewFromConfig(cfg),
		from:   from,
	}, nil
}

func (s *SESSender) Channel() models.Channel {
	return models.ChannelEmail
}

// Open verifies the client is usable; SES is stateless per message so the
// session is a thin wrapper.
func (s *SESSender) Open(ctx context.Context) (Session, error) {
	if s.client == nil {
		return nil, fmt.Errorf("SES client not initialized")
	}
	return &sesSession{client: s.client, from: s.from}, nil
}

type sesSession struct {
	client *sesv2.Client
	from   string
}

func (s *sesSession) Send(ctx context.Context, recipient string, msg *models.RenderedMessage) error {
	body := &types.Body{}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")}
	}
	if msg.Text != "" {
		body.Text = &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{recipient}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("SES send to %s: %w", recipient, err)
	}
	return nil
}

func (s *sesSession) Close() error {
	return nil
}
