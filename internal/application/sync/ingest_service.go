package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/order"
	"github.com/shipsync/backend/internal/domain/syncrun"
)

// IngestService pulls orders from marketplace clients and upserts them
// into local storage. Each pass is bracketed by a sync-run row; item
// failures are isolated so one malformed order cannot sink the pass.
type IngestService struct {
	marketplaces integration.MarketplaceRegistry
	orders       order.OrderRepository
	runs         syncrun.SyncRunRepository
	logger       *zap.Logger
}

// NewIngestService creates a new IngestService
func NewIngestService(
	marketplaces integration.MarketplaceRegistry,
	orders order.OrderRepository,
	runs syncrun.SyncRunRepository,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		marketplaces: marketplaces,
		orders:       orders,
		runs:         runs,
		logger:       logger,
	}
}

// IngestOrders runs one bounded ingestion pass for a platform. It
// returns the number of orders upserted. The sync-run row is closed on
// every path, including failures.
func (s *IngestService) IngestOrders(ctx context.Context, platform integration.PlatformCode, startTime, endTime time.Time) (int, error) {
	run, err := syncrun.NewSyncRun(platform, syncrun.SyncTypeOrders)
	if err != nil {
		return 0, err
	}
	if err := s.runs.Start(ctx, run); err != nil {
		return 0, err
	}

	synced, runErr := s.ingest(ctx, platform, startTime, endTime)

	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}
	if err := s.runs.Complete(ctx, run.ID, synced, errText); err != nil {
		s.logger.Error("Failed to close sync run",
			zap.String("run_id", run.ID.String()),
			zap.Error(err),
		)
	}

	return synced, runErr
}

func (s *IngestService) ingest(ctx context.Context, platform integration.PlatformCode, startTime, endTime time.Time) (int, error) {
	client, err := s.marketplaces.Client(platform)
	if err != nil {
		return 0, err
	}

	req := &integration.OrderPullRequest{
		Platform:  platform,
		StartTime: startTime,
		EndTime:   endTime,
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}

	pulled, err := client.PullOrders(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("pull orders from %s: %w", platform, err)
	}

	s.logger.Info("Pulled orders from platform",
		zap.String("platform", platform.String()),
		zap.Int("count", len(pulled)),
		zap.Time("start_time", startTime),
		zap.Time("end_time", endTime),
	)

	synced := 0
	var itemErrs []string
	for i := range pulled {
		if err := s.ingestOne(ctx, &pulled[i]); err != nil {
			itemErrs = append(itemErrs, fmt.Sprintf("order %s: %v", pulled[i].PlatformOrderID, err))
			s.logger.Warn("Failed to ingest order",
				zap.String("platform", platform.String()),
				zap.String("platform_order_id", pulled[i].PlatformOrderID),
				zap.Error(err),
			)
			continue
		}
		synced++
	}

	if len(itemErrs) > 0 {
		return synced, fmt.Errorf("%d of %d orders failed: %s",
			len(itemErrs), len(pulled), strings.Join(itemErrs, "; "))
	}
	return synced, nil
}

func (s *IngestService) ingestOne(ctx context.Context, src *integration.MarketplaceOrder) error {
	o, err := order.NewFromMarketplace(src)
	if err != nil {
		return err
	}
	_, err = s.orders.Upsert(ctx, o)
	return err
}
