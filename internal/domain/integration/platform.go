package integration

import "errors"

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	// Platform errors
	ErrPlatformNotConfigured   = errors.New("integration: platform not configured")
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
	ErrPlatformRateLimited     = errors.New("integration: platform rate limited")

	// Carrier errors
	ErrCarrierNotConfigured  = errors.New("integration: carrier not configured")
	ErrCarrierRequestFailed  = errors.New("integration: carrier request failed")
	ErrTrackingNumberUnknown = errors.New("integration: tracking number not recognized by carrier")

	// Payload errors
	ErrOrderMissingIdentity = errors.New("integration: order is missing platform or platform order id")
)

// ---------------------------------------------------------------------------
// PlatformCode
// ---------------------------------------------------------------------------

// PlatformCode identifies a marketplace that is a source of orders
type PlatformCode string

const (
	// PlatformEtsy represents the Etsy marketplace
	PlatformEtsy PlatformCode = "etsy"
	// PlatformAmazon represents the Amazon marketplace
	PlatformAmazon PlatformCode = "amazon"
	// PlatformEbay represents the eBay marketplace
	PlatformEbay PlatformCode = "ebay"
	// PlatformShopify represents a Shopify storefront
	PlatformShopify PlatformCode = "shopify"
)

// AllPlatforms lists every supported platform code
func AllPlatforms() []PlatformCode {
	return []PlatformCode{PlatformEtsy, PlatformAmazon, PlatformEbay, PlatformShopify}
}

// IsValid returns true if the platform code is valid
func (c PlatformCode) IsValid() bool {
	switch c {
	case PlatformEtsy, PlatformAmazon, PlatformEbay, PlatformShopify:
		return true
	default:
		return false
	}
}

// String returns the string representation of PlatformCode
func (c PlatformCode) String() string {
	return string(c)
}

// ---------------------------------------------------------------------------
// CarrierCode
// ---------------------------------------------------------------------------

// CarrierCode identifies a shipping carrier
type CarrierCode string

const (
	CarrierUSPS  CarrierCode = "usps"
	CarrierUPS   CarrierCode = "ups"
	CarrierFedEx CarrierCode = "fedex"
	CarrierDHL   CarrierCode = "dhl"
)

// IsValid returns true if the carrier code is valid
func (c CarrierCode) IsValid() bool {
	switch c {
	case CarrierUSPS, CarrierUPS, CarrierFedEx, CarrierDHL:
		return true
	default:
		return false
	}
}

// String returns the string representation of CarrierCode
func (c CarrierCode) String() string {
	return string(c)
}
