package spapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostForRegion(t *testing.T) {
	assert.Equal(t, "sellingpartnerapi-na.amazon.com", HostForRegion("NA"))
	assert.Equal(t, "sellingpartnerapi-eu.amazon.com", HostForRegion("EU"))
	assert.Equal(t, "sellingpartnerapi-fe.amazon.com", HostForRegion("FE"))
}

func TestHostForRegionUnknownFallsBackToNA(t *testing.T) {
	assert.Equal(t, HostForRegion("NA"), HostForRegion("ZZ"))
	assert.Equal(t, HostForRegion("NA"), HostForRegion(""))
}

func TestMarketplaceID(t *testing.T) {
	assert.Equal(t, "ATVPDKIKX0DER", MarketplaceID("US"))
	assert.Equal(t, "A1PA6795UKMFR9", MarketplaceID("DE"))
	assert.Equal(t, "A1VC38T7YXB528", MarketplaceID("JP"))
}

func TestMarketplaceIDUnknownDefaultsToUS(t *testing.T) {
	assert.Equal(t, MarketplaceID("US"), MarketplaceID("ZZ"))
}

func TestMarketplacesForRegion(t *testing.T) {
	assert.Equal(t, []string{"US", "CA", "MX"}, MarketplacesForRegion("NA"))
	assert.Equal(t, []string{"UK", "DE", "FR", "IT", "ES"}, MarketplacesForRegion("EU"))
	assert.Equal(t, []string{"JP", "AU"}, MarketplacesForRegion("FE"))
	assert.Empty(t, MarketplacesForRegion("ZZ"))
}

func TestRegionForMarketplace(t *testing.T) {
	assert.Equal(t, "NA", RegionForMarketplace("MX"))
	assert.Equal(t, "EU", RegionForMarketplace("IT"))
	assert.Equal(t, "FE", RegionForMarketplace("AU"))
	assert.Equal(t, "NA", RegionForMarketplace("ZZ"))
}
