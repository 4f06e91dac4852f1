// internal/notify/alert/alert.go
package alert

import (
	"context"
	"fmt"

	"github.com/Nasrulloh23256/NesabaLearn/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSService is the slice of the SNS client we use, extracted for mocking.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier publishes operational alerts (sweep failures) to an SNS topic so
// the on-call channel hears about delivery problems before users do.
type Notifier struct {
	client   SNSService
	topicARN string
	logger   logger.Logger
}

func New(ctx context.Context, region, topicARN string, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Notifier{
		client:   sns.NewFromConfig(awsCfg),
		topicARN: topicARN,
		logger:   log.WithFields(map[string]interface{}{"component": "alerts"}),
	}, nil
}

// NewWithClient injects an SNS client, used by tests.
func NewWithClient(client SNSService, topicARN string, log logger.Logger) *Notifier {
	return &Notifier{client: client, topicARN: topicARN, logger: log}
}

// SweepFailed reports a failed sweep. Best-effort: a publish failure is
// logged, never propagated.
func (n *Notifier) SweepFailed(ctx context.Context, sweepErr error) {
	if n == nil {
		return
	}
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String("notifier: due sweep failed"),
		Message:  aws.String(fmt.Sprintf("The due-notification sweep failed: %v", sweepErr)),
	})
	if err != nil {
		n.logger.Error("alert publish failed", map[string]interface{}{
			"error": err,
		})
	}
}
