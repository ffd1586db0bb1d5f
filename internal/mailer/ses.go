package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESProvider struct {
	client SESAPI
	sender string
}

// NewSESProvider loads the default AWS credential chain for region.
func NewSESProvider(ctx context.Context, region, sender string) (*SESProvider, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return NewSESProviderWithClient(ses.NewFromConfig(cfg), sender), nil
}

func NewSESProviderWithClient(client SESAPI, sender string) *SESProvider {
	return &SESProvider{client: client, sender: sender}
}

func (p *SESProvider) Name() string { return "ses" }

func (p *SESProvider) Send(ctx context.Context, m Message) error {
	if p.sender == "" {
		return fmt.Errorf("%w: SES_SENDER_EMAIL is empty", ErrNotConfigured)
	}
	body := &types.Body{
		Text: &types.Content{Data: aws.String(m.Text), Charset: aws.String("UTF-8")},
	}
	if m.HTML != "" {
		body.Html = &types.Content{Data: aws.String(m.HTML), Charset: aws.String("UTF-8")}
	}
	_, err := p.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(p.sender),
		Destination: &types.Destination{ToAddresses: []string{m.To}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(m.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
