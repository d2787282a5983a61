package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DJBertubin/AmazonCheck/internal/application"
	"github.com/DJBertubin/AmazonCheck/internal/domain"
	"github.com/DJBertubin/AmazonCheck/internal/infrastructure/spapi"
	"github.com/DJBertubin/AmazonCheck/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler exposes the dashboard's REST surface.
type Handler struct {
	accounts    ports.AccountRepository
	connections ports.MarketplaceConnectionRepository
	credentials ports.CredentialRepository
	connect     *application.ConnectService
	sync        *application.SyncService
	dashboard   *application.DashboardService
	catalog     *application.CatalogService
	clients     ports.ClientFactory
	logger      zerolog.Logger

	// apiBaseURL overrides the redirect origin derived from the inbound
	// request; it must point at this API, not the marketing site.
	apiBaseURL  string
	frontendURL string
}

// NewHandler creates the REST handler.
func NewHandler(
	accounts ports.AccountRepository,
	connections ports.MarketplaceConnectionRepository,
	credentials ports.CredentialRepository,
	connect *application.ConnectService,
	sync *application.SyncService,
	dashboard *application.DashboardService,
	catalog *application.CatalogService,
	clients ports.ClientFactory,
	apiBaseURL, frontendURL string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		accounts:    accounts,
		connections: connections,
		credentials: credentials,
		connect:     connect,
		sync:        sync,
		dashboard:   dashboard,
		catalog:     catalog,
		clients:     clients,
		apiBaseURL:  apiBaseURL,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Routes registers every /api route on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/accounts", h.listAccounts)
	r.Get("/api/marketplaces/{accountID}", h.listMarketplaces)
	r.Get("/api/dashboard/{accountID}/{marketplace}", h.getDashboard)
	r.Get("/api/listings/{accountID}/{marketplace}", h.listListings)
	r.Get("/api/inventory/{accountID}/{marketplace}", h.listInventory)
	r.Get("/api/inventory/{accountID}/{marketplace}/summary", h.inventorySummary)
	r.Get("/api/ppc/campaigns/{accountID}/{marketplace}", h.ppcCampaigns)
	r.Get("/api/ppc/metrics/{accountID}/{marketplace}", h.ppcMetrics)
	r.Get("/api/notifications/{accountID}/{marketplace}", h.notifications)

	r.Post("/api/amazon/connect", h.initiateConnect)
	r.Get("/api/auth/amazon/callback", h.oauthCallback)
	r.Get("/api/amazon/status/{accountID}", h.connectionStatus)
	r.Get("/api/amazon/connections", h.listConnections)
	r.Delete("/api/amazon/connection/{credentialID}", h.disconnect)
	r.Post("/api/amazon/sync/{accountID}/{marketplace}", h.runSync)

	r.Get("/api/test-amazon-env", h.testAmazonEnv)
	r.Get("/api/test-amazon-public", h.testAmazonPublic)
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) listMarketplaces(w http.ResponseWriter, r *http.Request) {
	conns, err := h.connections.ListByAccount(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if conns == nil {
		conns = []*domain.MarketplaceConnection{}
	}
	writeJSON(w, http.StatusOK, conns)
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Overview(r.Context(), chi.URLParam(r, "accountID"), chi.URLParam(r, "marketplace"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) listListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.catalog.Listings(r.Context(), chi.URLParam(r, "accountID"), chi.URLParam(r, "marketplace"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Inventory(r.Context(), chi.URLParam(r, "accountID"), chi.URLParam(r, "marketplace"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) inventorySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.catalog.Summary(r.Context(), chi.URLParam(r, "accountID"), chi.URLParam(r, "marketplace"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// The PPC pair returns empty datasets: the Advertising API is not connected,
// but the frontend expects both routes to exist.
func (h *Handler) ppcCampaigns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"campaigns": []any{}})
}

func (h *Handler) ppcMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total_spend": 0,
		"total_sales": 0,
		"acos":        0,
		"roas":        0,
		"chart_data":  []any{},
	})
}

func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.catalog.Notifications(r.Context(), chi.URLParam(r, "accountID"), chi.URLParam(r, "marketplace"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

type connectRequest struct {
	AccountName    string `json:"account_name"`
	Marketplace    string `json:"marketplace"`
	OrganizationID string `json:"organization_id"`
}

func (h *Handler) initiateConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.AccountName == "" || req.Marketplace == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "account_name and marketplace are required"})
		return
	}

	authURL, account, err := h.connect.Initiate(r.Context(), application.InitiateInput{
		AccountName:    req.AccountName,
		Marketplace:    req.Marketplace,
		OrganizationID: req.OrganizationID,
		RedirectBase:   h.redirectBase(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"auth_url": authURL,
		"account":  account,
	})
}

// redirectBase picks the origin the OAuth redirect must come back to. An
// explicitly configured API base URL wins; otherwise the inbound request's
// own scheme and host are used, never a separately hosted frontend.
func (h *Handler) redirectBase(r *http.Request) string {
	if h.apiBaseURL != "" {
		return h.apiBaseURL
	}
	scheme := "https"
	if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}
	return scheme + "://" + r.Host
}

func (h *Handler) oauthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	account, err := h.connect.CompleteCallback(r.Context(), application.CallbackInput{
		Code:             q.Get("spapi_oauth_code"),
		State:            q.Get("state"),
		SellingPartnerID: q.Get("selling_partner_id"),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("amazon oauth callback failed")
		renderErrorPage(w, callbackMessage(err), callbackHint(err))
		return
	}
	renderSuccessPage(w, account.ID, h.frontendURL)
}

func callbackMessage(err error) string {
	var stateErr *application.InvalidCallbackStateError
	switch {
	case errors.Is(err, application.ErrMissingCode):
		return "Amazon did not return an authorization code."
	case errors.As(err, &stateErr):
		return "This authorization link does not match a pending connection."
	default:
		return "Connecting your Amazon account failed."
	}
}

func callbackHint(err error) string {
	var exchangeErr *spapi.TokenExchangeError
	if errors.As(err, &exchangeErr) {
		return exchangeErr.Remediation()
	}
	return ""
}

func (h *Handler) connectionStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.catalog.Status(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) listConnections(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	type connection struct {
		Account *domain.Account               `json:"account"`
		Status  *application.ConnectionStatus `json:"status"`
	}
	out := make([]connection, 0, len(accounts))
	for _, account := range accounts {
		status, err := h.catalog.Status(r.Context(), account.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, connection{Account: account, Status: status})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.credentials.DeleteByID(r.Context(), chi.URLParam(r, "credentialID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

func (h *Handler) runSync(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sync.Sync(r.Context(), chi.URLParam(r, "accountID"), chi.URLParam(r, "marketplace"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
