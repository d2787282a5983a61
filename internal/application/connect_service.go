package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
	"github.com/DJBertubin/AmazonCheck/internal/infrastructure/spapi"
	"github.com/DJBertubin/AmazonCheck/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ConsentBaseURL is Seller Central's fixed OAuth consent page.
const ConsentBaseURL = "https://sellercentral.amazon.com/apps/authorize/consent"

// ErrMissingCode means the provider redirected back without an authorization
// code; nothing was exchanged or written.
var ErrMissingCode = errors.New("callback is missing the authorization code")

// InvalidCallbackStateError means the state parameter did not resolve to an
// account created by a prior Initiate. Treated as a security-relevant
// rejection, not something to retry.
type InvalidCallbackStateError struct {
	State string
}

func (e *InvalidCallbackStateError) Error() string {
	return fmt.Sprintf("callback state %q does not resolve to a known account", e.State)
}

// ConnectService coordinates the three-party OAuth handshake: it hands the
// seller off to the Seller Central consent page and turns the provider's
// redirect back into a persisted credential.
//
// The state parameter is the new account's id. The callback authenticates
// itself solely by resolving that id — it cannot rely on an application
// session because the redirect may land on a different origin. Account ids
// are opaque random UUIDs, and a state value is not invalidated after first
// use; a replayed callback re-runs the idempotent upsert rather than
// creating a second credential.
type ConnectService struct {
	accounts    ports.AccountRepository
	connections ports.MarketplaceConnectionRepository
	credentials ports.CredentialRepository
	exchanger   ports.CodeExchanger

	appID        string
	clientID     string
	clientSecret string
	logger       zerolog.Logger
}

// NewConnectService creates the handshake coordinator. appID is the public
// SP-API application id placed in the consent URL; clientID/clientSecret are
// the LWA identity stored into credentials after a successful exchange.
func NewConnectService(
	accounts ports.AccountRepository,
	connections ports.MarketplaceConnectionRepository,
	credentials ports.CredentialRepository,
	exchanger ports.CodeExchanger,
	appID, clientID, clientSecret string,
	logger zerolog.Logger,
) *ConnectService {
	return &ConnectService{
		accounts:     accounts,
		connections:  connections,
		credentials:  credentials,
		exchanger:    exchanger,
		appID:        appID,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
	}
}

// InitiateInput describes a new connection request.
type InitiateInput struct {
	AccountName    string
	Marketplace    string
	OrganizationID string
	// RedirectBase is the origin the provider should redirect back to. It must
	// be derived from the inbound request (or an explicit API base URL), never
	// from a marketing domain that cannot serve the callback route.
	RedirectBase string
}

// Initiate creates the account and marketplace connection records and returns
// the consent URL the frontend should open for the seller.
func (s *ConnectService) Initiate(ctx context.Context, input InitiateInput) (string, *domain.Account, error) {
	now := time.Now()
	account := &domain.Account{
		ID:             uuid.NewString(),
		OrganizationID: input.OrganizationID,
		BrandName:      input.AccountName,
		Status:         domain.AccountStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return "", nil, fmt.Errorf("failed to create account: %w", err)
	}

	conn := &domain.MarketplaceConnection{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		Marketplace: input.Marketplace,
		IsActive:    true,
		CreatedAt:   now,
	}
	if err := s.connections.Create(ctx, conn); err != nil {
		return "", nil, fmt.Errorf("failed to create marketplace connection: %w", err)
	}

	authURL, err := url.Parse(ConsentBaseURL)
	if err != nil {
		return "", nil, err
	}
	q := authURL.Query()
	q.Set("application_id", s.appID)
	q.Set("state", account.ID)
	q.Set("redirect_uri", input.RedirectBase+"/api/auth/amazon/callback")
	authURL.RawQuery = q.Encode()

	s.logger.Info().
		Str("account_id", account.ID).
		Str("marketplace", input.Marketplace).
		Msg("initiated Amazon connection")
	return authURL.String(), account, nil
}

// CallbackInput carries the provider's redirect parameters.
type CallbackInput struct {
	Code             string
	State            string
	SellingPartnerID string
}

// CompleteCallback validates the redirect, exchanges the authorization code
// for a refresh token, and upserts the account's credential. The upsert is
// idempotent: a retried callback for the same account updates the one
// existing credential with the newest refresh token instead of creating a
// duplicate. Failure at any step leaves no partial credential writes.
func (s *ConnectService) CompleteCallback(ctx context.Context, input CallbackInput) (*domain.Account, error) {
	if input.Code == "" {
		return nil, ErrMissingCode
	}

	account, err := s.accounts.GetByID(ctx, input.State)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve callback state: %w", err)
	}
	if account == nil {
		return nil, &InvalidCallbackStateError{State: input.State}
	}

	refreshToken, err := s.exchanger.ExchangeCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	existing, err := s.credentials.GetByAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	now := time.Now()
	if existing != nil {
		existing.LWAClientID = s.clientID
		existing.LWAClientSecret = s.clientSecret
		existing.RefreshToken = refreshToken
		existing.IsActive = true
		if existing.SellerID == "" {
			existing.SellerID = input.SellingPartnerID
		}
		existing.UpdatedAt = now
		if err := s.credentials.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update credential: %w", err)
		}
		s.logger.Info().Str("account_id", account.ID).Msg("rotated credential for reconnected account")
		return account, nil
	}

	cred := &domain.Credential{
		ID:              uuid.NewString(),
		AccountID:       account.ID,
		LWAClientID:     s.clientID,
		LWAClientSecret: s.clientSecret,
		RefreshToken:    refreshToken,
		Region:          s.regionForAccount(ctx, account.ID),
		SellerID:        input.SellingPartnerID,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.credentials.Create(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	s.logger.Info().Str("account_id", account.ID).Str("region", cred.Region).Msg("stored credential for new connection")
	return account, nil
}

// regionForAccount derives the credential's region from the marketplace the
// seller connected with, falling back to NA when no connection is readable.
func (s *ConnectService) regionForAccount(ctx context.Context, accountID string) string {
	conns, err := s.connections.ListByAccount(ctx, accountID)
	if err != nil || len(conns) == 0 {
		return spapi.RegionNA
	}
	return spapi.RegionForMarketplace(conns[0].Marketplace)
}
