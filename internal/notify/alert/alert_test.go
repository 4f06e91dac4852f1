// internal/notify/alert/alert_test.go
package alert

import (
	"context"
	"errors"
	"testing"

	"github.com/Nasrulloh23256/NesabaLearn/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
)

type mockSNS struct {
	inputs     []*sns.PublishInput
	publishErr error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	return &sns.PublishOutput{}, m.publishErr
}

func TestNotifier_SweepFailed(t *testing.T) {
	mock := &mockSNS{}
	n := NewWithClient(mock, "arn:aws:sns:ap-southeast-1:123:notifier-alerts", logger.NewNoOpLogger())

	n.SweepFailed(context.Background(), errors.New("postgres down"))

	assert.Len(t, mock.inputs, 1)
	assert.Contains(t, *mock.inputs[0].Message, "postgres down")
	assert.Equal(t, "arn:aws:sns:ap-southeast-1:123:notifier-alerts", *mock.inputs[0].TopicArn)
}

func TestNotifier_SweepFailed_PublishErrorSwallowed(t *testing.T) {
	mock := &mockSNS{publishErr: errors.New("denied")}
	n := NewWithClient(mock, "arn", logger.NewNoOpLogger())

	// must not panic or propagate
	n.SweepFailed(context.Background(), errors.New("x"))
	assert.Len(t, mock.inputs, 1)
}

func TestNotifier_NilReceiver(t *testing.T) {
	var n *Notifier
	n.SweepFailed(context.Background(), errors.New("x"))
}
