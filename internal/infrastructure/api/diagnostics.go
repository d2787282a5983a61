package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
	"github.com/DJBertubin/AmazonCheck/internal/infrastructure/spapi"
)

// Diagnostic endpoints for debugging a misconfigured deployment. They report
// which settings are present and whether a live round trip works; no secret
// values appear in any response, not even truncated.

// testAmazonPublic reports which settings are configured and, when an
// environment refresh token is available, runs the public catalog keyword
// search. The search needs no restricted roles, so a failure here isolates
// connectivity and token problems from permission problems.
func (h *Handler) testAmazonPublic(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"app_id_configured":        os.Getenv("AMAZON_SP_API_APP_ID") != "",
		"client_id_configured":     os.Getenv("AMAZON_LWA_CLIENT_ID") != "",
		"client_secret_configured": os.Getenv("AMAZON_LWA_CLIENT_SECRET") != "",
		"api_base_url":             h.apiBaseURL,
	}

	refreshToken := os.Getenv("AMAZON_REFRESH_TOKEN")
	if refreshToken == "" {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	client := h.clients.ClientFor(&domain.Credential{
		LWAClientID:     os.Getenv("AMAZON_LWA_CLIENT_ID"),
		LWAClientSecret: os.Getenv("AMAZON_LWA_CLIENT_SECRET"),
		RefreshToken:    refreshToken,
		Region:          spapi.RegionNA,
		IsActive:        true,
	})
	if _, err := client.SearchCatalog(r.Context(), spapi.MarketplaceID("US"), "laptop"); err != nil {
		h.logger.Error().Err(err).Msg("public catalog search diagnostic failed")
		resp["catalog_search_ok"] = false
		resp["hint"] = diagnosticHint(err)
	} else {
		resp["catalog_search_ok"] = true
	}
	writeJSON(w, http.StatusOK, resp)
}

// testAmazonEnv runs one real token exchange and one authenticated call using
// the credentials from the environment. AMAZON_REFRESH_TOKEN exists only for
// this endpoint.
func (h *Handler) testAmazonEnv(w http.ResponseWriter, r *http.Request) {
	refreshToken := os.Getenv("AMAZON_REFRESH_TOKEN")
	if refreshToken == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":     false,
			"reason": "AMAZON_REFRESH_TOKEN is not set",
		})
		return
	}

	cred := &domain.Credential{
		LWAClientID:     os.Getenv("AMAZON_LWA_CLIENT_ID"),
		LWAClientSecret: os.Getenv("AMAZON_LWA_CLIENT_SECRET"),
		RefreshToken:    refreshToken,
		Region:          spapi.RegionNA,
		IsActive:        true,
	}
	client := h.clients.ClientFor(cred)

	if _, err := client.MarketplaceParticipations(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("amazon env diagnostic failed")
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":    false,
			"error": err.Error(),
			"hint":  diagnosticHint(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func diagnosticHint(err error) string {
	var exchangeErr *spapi.TokenExchangeError
	if errors.As(err, &exchangeErr) {
		return exchangeErr.Remediation()
	}
	var apiErr *spapi.APIRequestError
	if errors.As(err, &apiErr) {
		return apiErr.Hint()
	}
	return ""
}
