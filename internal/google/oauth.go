package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	oauthapi "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/calgate/calgate/internal/config"
	"github.com/calgate/calgate/internal/instrumentation"
	"github.com/calgate/calgate/internal/store"
)

// Sentinel errors for the three ways the authorization flow can fail.
var (
	// ErrNeedsAuthorization signals that no credential is stored for an
	// identity; the caller should redirect the user into the consent flow
	// rather than report a hard error.
	ErrNeedsAuthorization = errors.New("authorization required")

	// ErrExchange wraps a failed authorization-code exchange.
	ErrExchange = errors.New("authorization code exchange failed")

	// ErrIdentityLookup wraps a failure to learn the canonical identity
	// after a successful exchange.
	ErrIdentityLookup = errors.New("identity lookup failed")
)

// DefaultScopes is the fixed scope set requested on every authorization.
// The email scope is required to learn the canonical identity; the events
// scope covers all calendar operations the service performs.
var DefaultScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/calendar.events",
}

// Flow drives the delegated-authorization handshake and resolves stored
// credentials into usable token sources. It is stateless across requests;
// the provider carries pending-authorization state in the opaque state
// parameter.
type Flow struct {
	oauthCfg *oauth2.Config
	store    *store.Store
	metrics  *instrumentation.Metrics

	// apiOpts are appended when constructing Google API services, letting
	// tests point the userinfo call at a local server.
	apiOpts []option.ClientOption
}

// NewFlow builds a Flow from the runtime configuration and credential store.
// The metrics recorder may be nil.
func NewFlow(cfg config.Config, st *store.Store, metrics *instrumentation.Metrics) *Flow {
	return &Flow{
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     googleoauth.Endpoint,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       DefaultScopes,
		},
		store:   st,
		metrics: metrics,
	}
}

// AuthURL returns the provider authorization URL to redirect the user to.
// Offline access and forced consent guarantee a refresh token on the first
// grant; include_granted_scopes keeps previously granted scopes attached.
func (f *Flow) AuthURL() string {
	state := uuid.NewString()
	return f.oauthCfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// CompleteAuthorization exchanges the authorization code for a token pair,
// learns the canonical identity from the provider's userinfo endpoint, and
// persists the credential. Returns the identity on success.
func (f *Flow) CompleteAuthorization(ctx context.Context, code string) (string, error) {
	token, err := f.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchange, err)
	}

	identity, err := f.fetchIdentity(ctx, token)
	if err != nil {
		return "", err
	}

	cred := store.Credential{
		Identity:     identity,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		TokenURI:     f.oauthCfg.Endpoint.TokenURL,
		ClientID:     f.oauthCfg.ClientID,
		ClientSecret: f.oauthCfg.ClientSecret,
		Scopes:       f.oauthCfg.Scopes,
	}
	if err := f.store.Upsert(ctx, cred); err != nil {
		return "", fmt.Errorf("persist credential for %s: %w", identity, err)
	}

	return identity, nil
}

// fetchIdentity asks the provider's userinfo endpoint for the verified
// email tied to the exchanged token.
func (f *Flow) fetchIdentity(ctx context.Context, token *oauth2.Token) (string, error) {
	opts := append([]option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(token)),
	}, f.apiOpts...)

	svc, err := oauthapi.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIdentityLookup, err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIdentityLookup, err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("%w: provider returned no email", ErrIdentityLookup)
	}

	return info.Email, nil
}

// ResolveCredential looks up the stored credential for an identity and
// turns it into a token source. The source refreshes the access token on
// demand and writes rotated tokens back to the store, so later requests
// skip the redundant rotation round-trip.
//
// Returns ErrNeedsAuthorization when no credential is stored.
func (f *Flow) ResolveCredential(ctx context.Context, identity string) (oauth2.TokenSource, error) {
	cred, err := f.store.Lookup(ctx, identity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w for %s", ErrNeedsAuthorization, identity)
		}
		return nil, fmt.Errorf("resolve credential for %s: %w", identity, err)
	}

	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.Expiry,
	}

	base := f.oauthCfg.TokenSource(ctx, token)
	return newPersistingTokenSource(ctx, base, f.store, f.metrics, cred, token), nil
}

// HTTPClient resolves the identity's credential into an authenticated HTTP
// client for Google API calls.
func (f *Flow) HTTPClient(ctx context.Context, identity string) (*http.Client, error) {
	ts, err := f.ResolveCredential(ctx, identity)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}
