// internal/notify/delivery/log.go
package delivery

import (
	"context"

	"github.com/Nasrulloh23256/NesabaLearn/internal/common/logger"
)

// LogDeliverer writes payloads to the log instead of sending them. Used when
// email delivery is disabled (local development, staging without SES access).
type LogDeliverer struct {
	logger logger.Logger
}

func NewLogDeliverer(log logger.Logger) *LogDeliverer {
	return &LogDeliverer{logger: log.WithFields(map[string]interface{}{"component": "log-deliverer"})}
}

func (d *LogDeliverer) Send(_ context.Context, p Payload) error {
	d.logger.Info("notification (delivery disabled)", map[string]interface{}{
		"recipient": p.RecipientAddress,
		"headline":  p.Headline,
		"actionUrl": p.ActionURL,
	})
	return nil
}
