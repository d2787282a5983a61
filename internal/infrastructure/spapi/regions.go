package spapi

// SP-API is deployed in three physical regions, each with its own hostname
// and set of member marketplaces.
const (
	RegionNA = "NA"
	RegionEU = "EU"
	RegionFE = "FE"
)

var regionHosts = map[string]string{
	RegionNA: "sellingpartnerapi-na.amazon.com",
	RegionEU: "sellingpartnerapi-eu.amazon.com",
	RegionFE: "sellingpartnerapi-fe.amazon.com",
}

// Marketplace short code to provider-assigned marketplace identifier.
var marketplaceIDs = map[string]string{
	"US": "ATVPDKIKX0DER",
	"CA": "A2EUQ1WTGCTBG2",
	"MX": "A1AM78C64UM0Y8",
	"UK": "A1F83G8C2ARO7P",
	"DE": "A1PA6795UKMFR9",
	"FR": "A13V1IB3VIYZZH",
	"IT": "APJ6JRA9NG5V4",
	"ES": "A1RKKUPIHCS9HS",
	"JP": "A1VC38T7YXB528",
	"AU": "A39IBJ37TRP1C6",
}

var regionMarketplaces = map[string][]string{
	RegionNA: {"US", "CA", "MX"},
	RegionEU: {"UK", "DE", "FR", "IT", "ES"},
	RegionFE: {"JP", "AU"},
}

// HostForRegion resolves the physical API hostname for a region code. An
// unknown region falls back to the NA host rather than failing; a bad region
// in a stored credential then surfaces as an API-level authorization error
// instead of blocking the request outright.
func HostForRegion(region string) string {
	if host, ok := regionHosts[region]; ok {
		return host
	}
	return regionHosts[RegionNA]
}

// MarketplaceID resolves a marketplace short code (US, DE, ...) to its
// provider-assigned identifier. Unknown codes default to the US entry.
func MarketplaceID(code string) string {
	if id, ok := marketplaceIDs[code]; ok {
		return id
	}
	return marketplaceIDs["US"]
}

// MarketplacesForRegion lists the member marketplace codes of a region.
func MarketplacesForRegion(region string) []string {
	return regionMarketplaces[region]
}

// RegionForMarketplace returns the region a marketplace belongs to, defaulting
// to NA for unknown codes. Used to pick a credential's region from the
// marketplace the seller connected with.
func RegionForMarketplace(code string) string {
	for region, codes := range regionMarketplaces {
		for _, c := range codes {
			if c == code {
				return region
			}
		}
	}
	return RegionNA
}
