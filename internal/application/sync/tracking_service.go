package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/order"
	"github.com/shipsync/backend/internal/domain/shipment"
	"github.com/shipsync/backend/internal/domain/syncrun"
)

// Notifier announces shipment status transitions to the customer
type Notifier interface {
	NotifyTransition(ctx context.Context, o *order.Order, s *shipment.Shipment, status shipment.Status) (bool, error)
}

// TrackingService polls carriers for every shipment in the work queue,
// applies sparse status patches, appends scan events to the ledger and
// promotes order status as shipments move.
type TrackingService struct {
	carriers  integration.CarrierRegistry
	shipments shipment.ShipmentRepository
	events    shipment.TrackingEventRepository
	orders    order.OrderRepository
	runs      syncrun.SyncRunRepository
	notifier  Notifier
	logger    *zap.Logger
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(
	carriers integration.CarrierRegistry,
	shipments shipment.ShipmentRepository,
	events shipment.TrackingEventRepository,
	orders order.OrderRepository,
	runs syncrun.SyncRunRepository,
	notifier Notifier,
	logger *zap.Logger,
) *TrackingService {
	return &TrackingService{
		carriers:  carriers,
		shipments: shipments,
		events:    events,
		orders:    orders,
		runs:      runs,
		notifier:  notifier,
		logger:    logger,
	}
}

// PollTracking runs one tracking pass for a platform's shipments. It
// returns the number of shipments updated. Carrier failures on one
// shipment do not stop the rest of the queue.
func (s *TrackingService) PollTracking(ctx context.Context, platform integration.PlatformCode) (int, error) {
	run, err := syncrun.NewSyncRun(platform, syncrun.SyncTypeTracking)
	if err != nil {
		return 0, err
	}
	if err := s.runs.Start(ctx, run); err != nil {
		return 0, err
	}

	updated, runErr := s.poll(ctx, platform)

	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}
	if err := s.runs.Complete(ctx, run.ID, updated, errText); err != nil {
		s.logger.Error("Failed to close sync run",
			zap.String("run_id", run.ID.String()),
			zap.Error(err),
		)
	}

	return updated, runErr
}

func (s *TrackingService) poll(ctx context.Context, platform integration.PlatformCode) (int, error) {
	queue, err := s.shipments.FindNeedingUpdate(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	var itemErrs []string
	for i := range queue {
		if queue[i].Platform != platform {
			continue
		}
		if err := s.pollOne(ctx, &queue[i].Shipment); err != nil {
			itemErrs = append(itemErrs, fmt.Sprintf("shipment %s: %v", queue[i].Shipment.ID, err))
			s.logger.Warn("Failed to poll shipment",
				zap.String("shipment_id", queue[i].Shipment.ID.String()),
				zap.String("tracking_number", queue[i].Shipment.TrackingNumber),
				zap.Error(err),
			)
			continue
		}
		updated++
	}

	if len(itemErrs) > 0 {
		return updated, fmt.Errorf("%d shipments failed: %s",
			len(itemErrs), strings.Join(itemErrs, "; "))
	}
	return updated, nil
}

func (s *TrackingService) pollOne(ctx context.Context, sh *shipment.Shipment) error {
	client, err := s.carriers.Client(sh.Carrier)
	if err != nil {
		return err
	}

	snap, err := client.Track(ctx, sh.TrackingNumber)
	if err != nil {
		return err
	}

	patch := shipment.PatchFromSnapshot(snap)

	// Keep status movement monotonic: carriers replay history and can
	// report milestones out of order.
	statusChanged := false
	if patch.CurrentStatus != nil {
		target := *patch.CurrentStatus
		switch {
		case target == sh.CurrentStatus:
			patch.CurrentStatus = nil
		case !sh.CurrentStatus.CanTransitionTo(target):
			s.logger.Debug("Dropping non-monotonic status change",
				zap.String("shipment_id", sh.ID.String()),
				zap.String("from", sh.CurrentStatus.String()),
				zap.String("to", target.String()),
			)
			patch.CurrentStatus = nil
		default:
			statusChanged = true
		}
	}

	if !patch.IsEmpty() {
		if err := s.shipments.UpdateStatus(ctx, sh.ID, patch); err != nil {
			return err
		}
	}

	if err := s.appendEvents(ctx, sh.ID, snap.Events); err != nil {
		return err
	}

	if statusChanged {
		if err := s.onTransition(ctx, sh, *patch.CurrentStatus); err != nil {
			return err
		}
	}

	return nil
}

// appendEvents writes the poll's scan events into the ledger. Replayed
// events dedup to no-ops inside Append.
func (s *TrackingService) appendEvents(ctx context.Context, shipmentID uuid.UUID, events []integration.CarrierEvent) error {
	for _, ev := range events {
		var occurredAt time.Time
		if ev.OccurredAt != nil {
			occurredAt = *ev.OccurredAt
		}
		e, err := shipment.NewTrackingEvent(shipmentID, ev.Type, occurredAt)
		if err != nil {
			return err
		}
		e.CarrierStatusCode = ev.StatusCode
		e.Description = ev.Description
		e.Location = ev.Location

		if _, err := s.events.Append(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// onTransition notifies the customer and moves the parent order along:
// a first shipped shipment promotes the order to shipped, and an order
// whose shipments have all arrived is promoted to delivered.
func (s *TrackingService) onTransition(ctx context.Context, sh *shipment.Shipment, status shipment.Status) error {
	o, err := s.orders.FindByID(ctx, sh.OrderID)
	if err != nil {
		return err
	}

	if _, err := s.notifier.NotifyTransition(ctx, o, sh, status); err != nil {
		s.logger.Warn("Failed to notify transition",
			zap.String("order_id", o.ID.String()),
			zap.String("shipment_id", sh.ID.String()),
			zap.Error(err),
		)
	}

	switch status {
	case shipment.StatusShipped, shipment.StatusOutForDelivery:
		if o.Status == order.StatusPaid || o.Status == order.StatusLabelCreated {
			return s.orders.UpdateStatus(ctx, o.ID, order.StatusShipped)
		}
	case shipment.StatusDelivered:
		if !o.Status.IsActiveFulfillment() {
			return nil
		}
		delivered, err := s.allDelivered(ctx, o.ID, sh.ID)
		if err != nil {
			return err
		}
		if delivered {
			if err := s.orders.UpdateStatus(ctx, o.ID, order.StatusDelivered); err != nil {
				return err
			}
			s.logger.Info("Order fully delivered",
				zap.String("order_id", o.ID.String()),
				zap.String("platform_order_id", o.PlatformOrderID),
			)
		}
	}

	return nil
}

// allDelivered reports whether every shipment of the order is delivered,
// treating justDeliveredID as delivered regardless of its stored state.
func (s *TrackingService) allDelivered(ctx context.Context, orderID, justDeliveredID uuid.UUID) (bool, error) {
	all, err := s.shipments.FindByOrderID(ctx, orderID)
	if err != nil {
		return false, err
	}
	for _, sh := range all {
		if sh.ID == justDeliveredID {
			continue
		}
		if sh.CurrentStatus != shipment.StatusDelivered {
			return false, nil
		}
	}
	return true, nil
}
