package google

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"github.com/calgate/calgate/internal/instrumentation"
	"github.com/calgate/calgate/internal/logging"
	"github.com/calgate/calgate/internal/store"
)

// persistingTokenSource wraps a refreshing token source and writes every
// rotated access token back to the credential store. Without the
// write-back, a stale stored token forces a rotation round-trip on every
// single request for that identity.
type persistingTokenSource struct {
	ctx     context.Context
	base    oauth2.TokenSource
	store   *store.Store
	metrics *instrumentation.Metrics
	cred    store.Credential

	mu   sync.Mutex
	last *oauth2.Token
}

func newPersistingTokenSource(ctx context.Context, base oauth2.TokenSource, st *store.Store, metrics *instrumentation.Metrics, cred store.Credential, current *oauth2.Token) oauth2.TokenSource {
	return &persistingTokenSource{
		ctx:     ctx,
		base:    base,
		store:   st,
		metrics: metrics,
		cred:    cred,
		last:    current,
	}
}

// Token returns a valid token from the underlying source, persisting it
// when rotation produced a new one. Persistence failures are logged and
// swallowed: the caller holds a valid token either way, and the next
// rotation will retry the write.
func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		s.metrics.RecordOAuthTokenRefresh(s.ctx, logging.StatusError)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil && s.last.AccessToken == token.AccessToken {
		return token, nil
	}

	s.metrics.RecordOAuthTokenRefresh(s.ctx, logging.StatusSuccess)

	cred := s.cred
	cred.AccessToken = token.AccessToken
	cred.RefreshToken = token.RefreshToken
	cred.Expiry = token.Expiry

	if err := s.store.Upsert(s.ctx, cred); err != nil {
		slog.Warn("failed to persist rotated token",
			logging.IdentityHash(cred.Identity),
			logging.Err(err))
	} else {
		slog.Debug("persisted rotated token",
			logging.IdentityHash(cred.Identity))
		s.last = token
	}

	return token, nil
}
