package services

import (
	"context"

	"github.com/johnoltman65/commerce-authnet/authnet"
	"github.com/johnoltman65/commerce-authnet/models"
)

// Gateway is the remote client surface the services depend on.
type Gateway interface {
	Execute(ctx context.Context, req authnet.Request) (*authnet.Response, error)
}

// EventPublisher publishes payment lifecycle events.
type EventPublisher interface {
	SendPaymentEvent(event models.PaymentEvent) error
}
