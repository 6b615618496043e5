package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/order"
	"github.com/shipsync/backend/internal/domain/shipment"
	"github.com/shipsync/backend/internal/domain/syncrun"
)

// ---------------------------------------------------------------------------
// Sync run store
// ---------------------------------------------------------------------------

type fakeRunStore struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*syncrun.SyncRun

	startErr    error
	completeErr error
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{runs: make(map[uuid.UUID]*syncrun.SyncRun)}
}

func (f *fakeRunStore) Start(ctx context.Context, run *syncrun.SyncRun) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *run
	f.runs[run.ID] = &cp
	return nil
}

func (f *fakeRunStore) Complete(ctx context.Context, id uuid.UUID, itemsSynced int, errorText string) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return syncrun.ErrNotFound
	}
	run.Complete(itemsSynced, errorText)
	return nil
}

func (f *fakeRunStore) FindByID(ctx context.Context, id uuid.UUID) (*syncrun.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return nil, syncrun.ErrNotFound
	}
	cp := *run
	return &cp, nil
}

func (f *fakeRunStore) FindLastCompleted(ctx context.Context, platform integration.PlatformCode, syncType syncrun.SyncType) (*syncrun.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var last *syncrun.SyncRun
	for _, run := range f.runs {
		if run.Platform != platform || run.SyncType != syncType || run.Status != syncrun.RunStatusCompleted {
			continue
		}
		if last == nil || run.CompletedAt.After(*last.CompletedAt) {
			last = run
		}
	}
	if last == nil {
		return nil, syncrun.ErrNotFound
	}
	cp := *last
	return &cp, nil
}

func (f *fakeRunStore) FindStale(ctx context.Context, startedBefore time.Time) ([]syncrun.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stale []syncrun.SyncRun
	for _, run := range f.runs {
		if run.Status == syncrun.RunStatusRunning && run.StartedAt.Before(startedBefore) {
			stale = append(stale, *run)
		}
	}
	return stale, nil
}

func (f *fakeRunStore) MarkStale(ctx context.Context, ids []uuid.UUID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, id := range ids {
		run, ok := f.runs[id]
		if !ok {
			continue
		}
		run.Status = syncrun.RunStatusError
		run.ErrorText = reason
		run.CompletedAt = &now
	}
	return nil
}

// only returns the run opened for the given type, failing loudly when
// the pass opened more or less than one
func (f *fakeRunStore) only(syncType syncrun.SyncType) *syncrun.SyncRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found *syncrun.SyncRun
	for _, run := range f.runs {
		if run.SyncType != syncType {
			continue
		}
		if found != nil {
			return nil
		}
		found = run
	}
	return found
}

// ---------------------------------------------------------------------------
// Order repository
// ---------------------------------------------------------------------------

type fakeOrderRepo struct {
	mu       sync.Mutex
	byNatKey map[string]*order.Order
	byID     map[uuid.UUID]*order.Order

	upsertErrFor  map[string]error
	statusUpdates map[uuid.UUID][]order.Status
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		byNatKey:      make(map[string]*order.Order),
		byID:          make(map[uuid.UUID]*order.Order),
		upsertErrFor:  make(map[string]error),
		statusUpdates: make(map[uuid.UUID][]order.Status),
	}
}

func natKey(platform integration.PlatformCode, platformOrderID string) string {
	return fmt.Sprintf("%s:%s", platform, platformOrderID)
}

func (f *fakeOrderRepo) Upsert(ctx context.Context, o *order.Order) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := natKey(o.Platform, o.PlatformOrderID)
	if err := f.upsertErrFor[key]; err != nil {
		return nil, err
	}
	if existing, ok := f.byNatKey[key]; ok {
		id, createdAt := existing.ID, existing.CreatedAt
		cp := *o
		cp.ID, cp.CreatedAt = id, createdAt
		f.byNatKey[key] = &cp
		f.byID[id] = &cp
		return &cp, nil
	}
	cp := *o
	f.byNatKey[key] = &cp
	f.byID[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) FindByPlatformOrderID(ctx context.Context, platform integration.PlatformCode, platformOrderID string) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byNatKey[natKey(platform, platformOrderID)]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) FindAll(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) FindNeedingTracking(ctx context.Context) ([]order.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	f.statusUpdates[id] = append(f.statusUpdates[id], status)
	return nil
}

func (f *fakeOrderRepo) seed(o *order.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byNatKey[natKey(o.Platform, o.PlatformOrderID)] = o
	f.byID[o.ID] = o
}

// ---------------------------------------------------------------------------
// Shipment repository
// ---------------------------------------------------------------------------

type fakeShipmentRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*shipment.Shipment
	queue   []shipment.WithOrder
	patches map[uuid.UUID][]shipment.StatusPatch

	queueErr error
}

func newFakeShipmentRepo() *fakeShipmentRepo {
	return &fakeShipmentRepo{
		byID:    make(map[uuid.UUID]*shipment.Shipment),
		patches: make(map[uuid.UUID][]shipment.StatusPatch),
	}
}

func (f *fakeShipmentRepo) Create(ctx context.Context, s *shipment.Shipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeShipmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, shipment.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeShipmentRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]shipment.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []shipment.Shipment
	for _, s := range f.byID {
		if s.OrderID == orderID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byID {
		if s.TrackingNumber == trackingNumber {
			cp := *s
			return &cp, nil
		}
	}
	return nil, shipment.ErrNotFound
}

func (f *fakeShipmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, patch shipment.StatusPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return shipment.ErrNotFound
	}
	f.patches[id] = append(f.patches[id], patch)
	if patch.CurrentStatus != nil {
		s.CurrentStatus = *patch.CurrentStatus
	}
	if patch.LastLocation != nil {
		s.LastLocation = *patch.LastLocation
	}
	if patch.ShippedAt != nil {
		s.ShippedAt = patch.ShippedAt
	}
	if patch.DeliveredAt != nil {
		s.DeliveredAt = patch.DeliveredAt
	}
	return nil
}

func (f *fakeShipmentRepo) FindNeedingUpdate(ctx context.Context) ([]shipment.WithOrder, error) {
	if f.queueErr != nil {
		return nil, f.queueErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]shipment.WithOrder(nil), f.queue...), nil
}

func (f *fakeShipmentRepo) enqueue(s *shipment.Shipment, platform integration.PlatformCode, platformOrderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.byID[s.ID] = &cp
	f.queue = append(f.queue, shipment.WithOrder{
		Shipment:        *s,
		Platform:        platform,
		PlatformOrderID: platformOrderID,
	})
}

// ---------------------------------------------------------------------------
// Tracking event ledger
// ---------------------------------------------------------------------------

type fakeEventLedger struct {
	mu       sync.Mutex
	appended []shipment.TrackingEvent
	seen     map[string]bool
}

func newFakeEventLedger() *fakeEventLedger {
	return &fakeEventLedger{seen: make(map[string]bool)}
}

func (f *fakeEventLedger) Append(ctx context.Context, e *shipment.TrackingEvent) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%s|%s", e.ShipmentID, e.OccurredAt.UTC().Format(time.RFC3339Nano), e.EventType, e.Location)
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	f.appended = append(f.appended, *e)
	return true, nil
}

func (f *fakeEventLedger) FindByShipmentID(ctx context.Context, shipmentID uuid.UUID) ([]shipment.TrackingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []shipment.TrackingEvent
	for _, e := range f.appended {
		if e.ShipmentID == shipmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Marketplace and carrier clients
// ---------------------------------------------------------------------------

type fakeMarketplaceClient struct {
	code   integration.PlatformCode
	orders []integration.MarketplaceOrder
	err    error

	lastReq *integration.OrderPullRequest
}

func (f *fakeMarketplaceClient) Platform() integration.PlatformCode { return f.code }

func (f *fakeMarketplaceClient) PullOrders(ctx context.Context, req *integration.OrderPullRequest) ([]integration.MarketplaceOrder, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

type fakeMarketplaceRegistry struct {
	clients map[integration.PlatformCode]integration.MarketplaceClient
}

func (f *fakeMarketplaceRegistry) Client(platform integration.PlatformCode) (integration.MarketplaceClient, error) {
	c, ok := f.clients[platform]
	if !ok {
		return nil, integration.ErrPlatformNotConfigured
	}
	return c, nil
}

func (f *fakeMarketplaceRegistry) Platforms() []integration.PlatformCode {
	var codes []integration.PlatformCode
	for code := range f.clients {
		codes = append(codes, code)
	}
	return codes
}

type fakeCarrierClient struct {
	code  integration.CarrierCode
	snaps map[string]*integration.TrackingSnapshot
	err   error
}

func (f *fakeCarrierClient) Carrier() integration.CarrierCode { return f.code }

func (f *fakeCarrierClient) Track(ctx context.Context, trackingNumber string) (*integration.TrackingSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	snap, ok := f.snaps[trackingNumber]
	if !ok {
		return nil, integration.ErrTrackingNumberUnknown
	}
	return snap, nil
}

type fakeCarrierRegistry struct {
	clients map[integration.CarrierCode]integration.CarrierClient
}

func (f *fakeCarrierRegistry) Client(carrier integration.CarrierCode) (integration.CarrierClient, error) {
	c, ok := f.clients[carrier]
	if !ok {
		return nil, integration.ErrCarrierNotConfigured
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Notifier
// ---------------------------------------------------------------------------

type notifiedTransition struct {
	orderID    uuid.UUID
	shipmentID uuid.UUID
	status     shipment.Status
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifiedTransition
	err   error
}

func (f *fakeNotifier) NotifyTransition(ctx context.Context, o *order.Order, s *shipment.Shipment, status shipment.Status) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifiedTransition{orderID: o.ID, shipmentID: s.ID, status: status})
	return f.err == nil, f.err
}
