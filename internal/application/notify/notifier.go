package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/domain/notification"
	"github.com/shipsync/backend/internal/domain/order"
	"github.com/shipsync/backend/internal/domain/shipment"
)

// MessageDispatcher delivers a composed notification over its channel.
// Concrete transports (email provider, SMS gateway) live in
// infrastructure and implement this interface.
type MessageDispatcher interface {
	Dispatch(ctx context.Context, n *notification.Notification) error
}

// TypeForTransition maps a shipment status to the customer notification
// it triggers. Label creation is internal and announces nothing.
func TypeForTransition(status shipment.Status) (notification.Type, bool) {
	switch status {
	case shipment.StatusShipped:
		return notification.TypeOrderShipped, true
	case shipment.StatusOutForDelivery:
		return notification.TypeOutForDelivery, true
	case shipment.StatusDelivered:
		return notification.TypeDelivered, true
	case shipment.StatusException:
		return notification.TypeDeliveryProblem, true
	case shipment.StatusReturned:
		return notification.TypeShipmentReturned, true
	}
	return "", false
}

// TransitionNotifier turns shipment status transitions into customer
// notifications, recording every attempt in the notification ledger.
// The ledger is also the dedup substrate: a repeat of the same
// notification inside the cool-down window is suppressed, so flapping
// carrier feeds cannot spam the buyer.
type TransitionNotifier struct {
	ledger     notification.NotificationRepository
	dispatcher MessageDispatcher
	cooldown   time.Duration
	logger     *zap.Logger
}

// NewTransitionNotifier creates a new TransitionNotifier
func NewTransitionNotifier(
	ledger notification.NotificationRepository,
	dispatcher MessageDispatcher,
	cooldown time.Duration,
	logger *zap.Logger,
) *TransitionNotifier {
	return &TransitionNotifier{
		ledger:     ledger,
		dispatcher: dispatcher,
		cooldown:   cooldown,
		logger:     logger,
	}
}

// NotifyTransition announces a shipment's move into the given status to
// the order's customer. It reports whether a message actually went out;
// suppressed and unmapped transitions return false with no error.
func (t *TransitionNotifier) NotifyTransition(ctx context.Context, o *order.Order, s *shipment.Shipment, status shipment.Status) (bool, error) {
	nType, ok := TypeForTransition(status)
	if !ok {
		return false, nil
	}

	if o.CustomerEmail == "" {
		t.logger.Debug("Skipping notification, order has no customer email",
			zap.String("order_id", o.ID.String()),
			zap.String("type", nType.String()),
		)
		return false, nil
	}

	since := time.Now().Add(-t.cooldown)
	exists, err := t.ledger.ExistsSince(ctx, &o.ID, &s.ID, nType, since)
	if err != nil {
		return false, err
	}
	if exists {
		t.logger.Debug("Suppressing repeat notification inside cool-down",
			zap.String("order_id", o.ID.String()),
			zap.String("shipment_id", s.ID.String()),
			zap.String("type", nType.String()),
		)
		return false, nil
	}

	n, err := notification.New(nType, notification.ChannelEmail, o.CustomerEmail)
	if err != nil {
		return false, err
	}
	n.ForOrder(o.ID).ForShipment(s.ID)
	n.Subject, n.Message = composeMessage(nType, o, s)

	if err := t.dispatcher.Dispatch(ctx, n); err != nil {
		n.MarkFailed()
		t.logger.Warn("Notification dispatch failed",
			zap.String("order_id", o.ID.String()),
			zap.String("type", nType.String()),
			zap.Error(err),
		)
	}

	// The attempt lands in the ledger whether dispatch succeeded or not.
	if err := t.ledger.Record(ctx, n); err != nil {
		return false, err
	}

	return n.Status == notification.DeliveryStatusSent, nil
}

// composeMessage builds the customer-facing subject and body for a
// transition notification
func composeMessage(nType notification.Type, o *order.Order, s *shipment.Shipment) (string, string) {
	ref := fmt.Sprintf("order %s", o.PlatformOrderID)
	tracking := ""
	if s.TrackingNumber != "" {
		tracking = fmt.Sprintf(" Tracking number: %s (%s).", s.TrackingNumber, s.Carrier.String())
	}

	switch nType {
	case notification.TypeOrderShipped:
		return fmt.Sprintf("Your %s has shipped", ref),
			fmt.Sprintf("Good news! Your %s is on its way.%s", ref, tracking)
	case notification.TypeOutForDelivery:
		return fmt.Sprintf("Your %s is out for delivery", ref),
			fmt.Sprintf("Your %s is out for delivery and should arrive today.%s", ref, tracking)
	case notification.TypeDelivered:
		return fmt.Sprintf("Your %s was delivered", ref),
			fmt.Sprintf("Your %s has been delivered. Thanks for your purchase!", ref)
	case notification.TypeDeliveryProblem:
		return fmt.Sprintf("Delivery issue with your %s", ref),
			fmt.Sprintf("The carrier reported a problem delivering your %s. We are looking into it.%s", ref, tracking)
	case notification.TypeShipmentReturned:
		return fmt.Sprintf("Your %s was returned to sender", ref),
			fmt.Sprintf("Your %s is being returned to us. We will reach out about next steps.", ref)
	}
	return "", ""
}
