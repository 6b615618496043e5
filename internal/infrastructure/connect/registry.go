package connect

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shipsync/backend/internal/domain/integration"
)

// ClientRegistry manages marketplace and carrier client registrations.
// Concrete API clients register themselves at composition time; the
// sync services resolve them by code.
type ClientRegistry struct {
	mu           sync.RWMutex
	marketplaces map[integration.PlatformCode]integration.MarketplaceClient
	carriers     map[integration.CarrierCode]integration.CarrierClient
}

// NewClientRegistry creates a new empty client registry
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{
		marketplaces: make(map[integration.PlatformCode]integration.MarketplaceClient),
		carriers:     make(map[integration.CarrierCode]integration.CarrierClient),
	}
}

var (
	_ integration.MarketplaceRegistry = (*ClientRegistry)(nil)
	_ integration.CarrierRegistry     = carrierView{}
)

// RegisterMarketplace registers a marketplace client under its own
// platform code
func (r *ClientRegistry) RegisterMarketplace(c integration.MarketplaceClient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := c.Platform()
	if !code.IsValid() {
		return fmt.Errorf("%w: %q", integration.ErrPlatformNotConfigured, code)
	}
	if _, exists := r.marketplaces[code]; exists {
		return fmt.Errorf("marketplace client %q already registered", code)
	}
	r.marketplaces[code] = c
	return nil
}

// Client returns the marketplace client for the given platform code
func (r *ClientRegistry) Client(platform integration.PlatformCode) (integration.MarketplaceClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.marketplaces[platform]
	if !exists {
		return nil, fmt.Errorf("%w: %q", integration.ErrPlatformNotConfigured, platform)
	}
	return c, nil
}

// Platforms returns the codes of every registered marketplace client,
// sorted for stable scheduling order
func (r *ClientRegistry) Platforms() []integration.PlatformCode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]integration.PlatformCode, 0, len(r.marketplaces))
	for code := range r.marketplaces {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// RegisterCarrier registers a carrier client under its own carrier code
func (r *ClientRegistry) RegisterCarrier(c integration.CarrierClient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := c.Carrier()
	if !code.IsValid() {
		return fmt.Errorf("%w: %q", integration.ErrCarrierNotConfigured, code)
	}
	if _, exists := r.carriers[code]; exists {
		return fmt.Errorf("carrier client %q already registered", code)
	}
	r.carriers[code] = c
	return nil
}

// carrierView adapts the registry to integration.CarrierRegistry, whose
// Client method collides with the marketplace one.
type carrierView struct {
	r *ClientRegistry
}

// Carriers returns the registry's carrier-resolving view
func (r *ClientRegistry) Carriers() integration.CarrierRegistry {
	return carrierView{r: r}
}

func (v carrierView) Client(carrier integration.CarrierCode) (integration.CarrierClient, error) {
	v.r.mu.RLock()
	defer v.r.mu.RUnlock()

	c, exists := v.r.carriers[carrier]
	if !exists {
		return nil, fmt.Errorf("%w: %q", integration.ErrCarrierNotConfigured, carrier)
	}
	return c, nil
}
