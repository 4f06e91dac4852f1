// internal/notify/delivery/ses.go
package delivery

import (
	"context"
	"fmt"

	"github.com/Nasrulloh23256/NesabaLearn/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/google/uuid"
)

// SESService is the slice of the SES client we use, extracted for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailDeliverer sends notification payloads as plain-text email via SES.
type EmailDeliverer struct {
	client    SESService
	fromEmail string
	logger    logger.Logger
}

func NewEmailDeliverer(ctx context.Context, region, fromEmail string, log logger.Logger) (*EmailDeliverer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &EmailDeliverer{
		client:    ses.NewFromConfig(awsCfg),
		fromEmail: fromEmail,
		logger:    log.WithFields(map[string]interface{}{"component": "email-deliverer"}),
	}, nil
}

// NewEmailDelivererWithClient injects an SES client, used by tests.
func NewEmailDelivererWithClient(client SESService, fromEmail string, log logger.Logger) *EmailDeliverer {
	return &EmailDeliverer{client: client, fromEmail: fromEmail, logger: log}
}

func (d *EmailDeliverer) Send(ctx context.Context, p Payload) error {
	if p.RecipientAddress == "" {
		return fmt.Errorf("payload has no recipient address")
	}

	body := p.Body
	if p.ActionLabel != "" && p.ActionURL != "" {
		body = fmt.Sprintf("%s\n\n%s: %s", body, p.ActionLabel, p.ActionURL)
	}

	deliveryID := uuid.New().String()
	_, err := d.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{p.RecipientAddress},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(p.Headline)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(d.fromEmail),
	})
	if err != nil {
		d.logger.Error("email send failed", map[string]interface{}{
			"deliveryId": deliveryID,
			"error":      err,
		})
		return fmt.Errorf("ses send: %w", err)
	}

	d.logger.Debug("email sent", map[string]interface{}{
		"deliveryId": deliveryID,
		"headline":   p.Headline,
	})
	return nil
}
