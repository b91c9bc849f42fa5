package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/confhub/conference-portal/internal/core/domain"
	"github.com/confhub/conference-portal/internal/core/ports"
	"github.com/confhub/conference-portal/internal/core/token"
)

// SessionService is the client-side session store: a single mutable cell
// holding the current principal, reconciled against the credential the
// environment holds. It never navigates by itself; Login and Logout return
// the route the caller should go to.
//
// Concurrency: opMu serializes Login and Logout end to end, so a logout
// started during a login observes either the pre-login or the post-login
// state, never a half-written one. Init runs outside opMu (it must not block
// the caller behind a slow login), so a generation counter invalidates any
// fetch that finishes after a newer operation has begun; stale results are
// discarded instead of resurrecting a cleared session.
type SessionService struct {
	creds    ports.CredentialStore
	profiles ports.ProfileFetcher
	auth     ports.Authenticator
	ttl      time.Duration
	log      zerolog.Logger

	opMu sync.Mutex

	mu        sync.Mutex
	gen       uint64
	principal *domain.Principal
	loading   bool
}

func NewSessionService(creds ports.CredentialStore, profiles ports.ProfileFetcher, auth ports.Authenticator, ttl time.Duration, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = token.DefaultTTL
	}
	return &SessionService{
		creds:    creds,
		profiles: profiles,
		auth:     auth,
		ttl:      ttl,
		log:      log,
		loading:  true,
	}
}

// Current returns the session record: the tagged principal (nil when empty)
// and whether the initial reconciliation is still in flight.
func (s *SessionService) Current() (*domain.Principal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal, s.loading
}

// Init reconciles the store against whatever credential the environment
// already holds. Without a credential it settles to empty with no network
// call, so unauthenticated use of public routes stays free. With one, it
// fetches the profile, classifies it, and populates the record; any fetch
// failure clears the credential and settles to empty.
func (s *SessionService) Init(ctx context.Context) {
	s.mu.Lock()
	raw, ok := s.creds.Token()
	if !ok {
		s.principal = nil
		s.loading = false
		s.mu.Unlock()
		return
	}
	gen := s.gen
	s.mu.Unlock()

	rec, err := s.profiles.FetchProfile(ctx, raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// A login or logout superseded this fetch; its result is stale.
		return
	}
	s.loading = false
	if err != nil {
		s.log.Warn().Err(err).Msg("session init: profile fetch failed, clearing credential")
		s.creds.Clear()
		s.principal = nil
		return
	}
	p := domain.Classify(rec)
	s.principal = &p
}

// Login authenticates against the external auth endpoint, stores the fresh
// credential, fetches and classifies the profile, and returns the landing
// route for the resulting role. On any failure the store rolls back to the
// empty state and the error is returned: login is all-or-nothing.
func (s *SessionService) Login(ctx context.Context, email, password string) (string, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.bumpGeneration()

	raw, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		s.settleEmpty()
		return "", err
	}
	s.creds.Store(raw, time.Now().Add(s.ttl))

	rec, err := s.profiles.FetchProfile(ctx, raw)
	if err != nil {
		s.settleEmpty()
		return "", err
	}

	p := domain.Classify(rec)
	s.mu.Lock()
	s.principal = &p
	s.loading = false
	s.mu.Unlock()

	return p.LandingRoute(), nil
}

// Logout revokes the credential remotely on a best-effort basis, then
// unconditionally clears local state and returns the login route. Safe to
// call with no active session.
func (s *SessionService) Logout(ctx context.Context) string {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.bumpGeneration()

	if raw, ok := s.creds.Token(); ok {
		if err := s.auth.Revoke(ctx, raw); err != nil {
			// Local clearing is unconditional: a dead backend must not pin
			// the user into a logged-in shell.
			s.log.Warn().Err(err).Msg("logout: remote revocation failed")
		}
	}

	s.settleEmpty()
	return "/login"
}

// bumpGeneration invalidates any in-flight fetch started before now.
func (s *SessionService) bumpGeneration() {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
}

// settleEmpty converges the store to the empty state: credential cleared,
// record emptied, loading finished. Every failure path ends here.
func (s *SessionService) settleEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.Clear()
	s.principal = nil
	s.loading = false
}
