// internal/notify/delivery/delivery.go
package delivery

import "context"

// Payload is the notification handed to the delivery collaborator.
type Payload struct {
	RecipientAddress string `json:"recipientAddress"`
	Headline         string `json:"headline"`
	Body             string `json:"body"`
	ActionLabel      string `json:"actionLabel,omitempty"`
	ActionURL        string `json:"actionUrl,omitempty"`
}

// Deliverer turns a payload into an actual message. Retries and backoff are
// the implementation's concern, not the scheduler's.
type Deliverer interface {
	Send(ctx context.Context, p Payload) error
}
