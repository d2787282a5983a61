package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DJBertubin/AmazonCheck/internal/application"
	"github.com/DJBertubin/AmazonCheck/internal/infrastructure/spapi"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape every failed request gets. Hint carries the
// remediation text from the typed SP-API errors so the frontend can show
// something actionable instead of a bare status code.
type errorBody struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

// writeError maps the service error taxonomy onto HTTP statuses. Error
// strings never include token material.
func writeError(w http.ResponseWriter, err error) {
	var exchangeErr *spapi.TokenExchangeError
	var apiErr *spapi.APIRequestError
	var stateErr *application.InvalidCallbackStateError

	switch {
	case errors.Is(err, application.ErrMissingCode):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.As(err, &stateErr):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, application.ErrNotConnected):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Hint: "Connect the Amazon account first."})
	case errors.As(err, &exchangeErr):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: exchangeErr.Error(), Hint: exchangeErr.Remediation()})
	case errors.As(err, &apiErr):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: apiErr.Error(), Hint: apiErr.Hint()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}
