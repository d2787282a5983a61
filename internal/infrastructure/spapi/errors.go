package spapi

import (
	"fmt"
	"net/http"
)

// Grant identifies which OAuth grant flow an exchange error came from. The
// distinction matters for remediation: a failed refresh grant usually means a
// revoked or invalid refresh token (the seller must re-authorize), while a
// failed code grant usually means an expired or already-used authorization
// code.
type Grant string

const (
	GrantRefreshToken      Grant = "refresh_token"
	GrantAuthorizationCode Grant = "authorization_code"
)

// TokenExchangeError is returned when the LWA authorization server rejects a
// grant. It carries the provider's status code and response body; no retry is
// attempted at this layer.
type TokenExchangeError struct {
	Grant      Grant
	StatusCode int
	Body       string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("lwa %s grant rejected (%d): %s", e.Grant, e.StatusCode, e.Body)
}

// Remediation returns a human-readable hint for the operator or seller.
func (e *TokenExchangeError) Remediation() string {
	switch e.Grant {
	case GrantAuthorizationCode:
		return "The authorization code is likely expired or already used. Restart the connection flow."
	default:
		return "The refresh token may be expired or revoked. Re-authorize the app in Seller Central."
	}
}

// APIRequestError is returned when the resource API rejects an authenticated
// call. A 403 after a successful token exchange is a known symptom of a
// refresh token issued against the draft variant of the application rather
// than the published one, and the hint preserves that diagnosis instead of
// collapsing it into a generic failure.
type APIRequestError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIRequestError) Error() string {
	return fmt.Sprintf("sp-api request failed (%d) %s: %s", e.StatusCode, e.URL, e.Body)
}

// Hint returns a remediation hint where the status code admits one.
func (e *APIRequestError) Hint() string {
	if e.StatusCode == http.StatusForbidden {
		return "Access token was accepted by LWA but rejected by SP-API. The refresh token was likely " +
			"issued for the draft version of the app. Revoke the authorization in Seller Central and " +
			"reconnect to get a refresh token for the published version."
	}
	return ""
}
