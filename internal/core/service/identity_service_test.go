package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/confhub/conference-portal/internal/core/domain"
	"github.com/confhub/conference-portal/internal/core/token"
)

type stubAccountRepo struct {
	byEmail map[string]*domain.Account
	byID    map[int64]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{
		byEmail: make(map[string]*domain.Account),
		byID:    make(map[int64]*domain.Account),
	}
}

func (r *stubAccountRepo) add(t *testing.T, password string, rec domain.ProfileRecord) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	acct := &domain.Account{PasswordHash: string(hash), Record: rec}
	r.byEmail[rec.Email] = acct
	r.byID[rec.ID] = acct
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if acct, ok := r.byEmail[email]; ok {
		return acct, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	if acct, ok := r.byID[id]; ok {
		return acct, nil
	}
	return nil, domain.ErrAccountNotFound
}

type memRevocations struct {
	mu  sync.Mutex
	m   map[string]time.Duration
	err error
}

func newMemRevocations() *memRevocations {
	return &memRevocations{m: make(map[string]time.Duration)}
}

func (r *memRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[jti] = ttl
	return nil
}

func (r *memRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.m[jti]
	return ok, nil
}

type captureAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *captureAudit) Record(ev domain.AuthEvent) {
	a.mu.Lock()
	a.events = append(a.events, ev)
	a.mu.Unlock()
}

func (a *captureAudit) last() (domain.AuthEvent, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.events) == 0 {
		return domain.AuthEvent{}, false
	}
	return a.events[len(a.events)-1], true
}

func newIdentity(repo *stubAccountRepo, rev *memRevocations, audit *captureAudit) *IdentityService {
	return NewIdentityService(repo, token.NewCodec("identity-secret", time.Hour), rev, audit, zerolog.Nop())
}

func TestIdentity_LoginMintsClassifiedRole(t *testing.T) {
	repo := newStubAccountRepo()
	rec := reviewerRecord()
	rec.Active = true
	repo.add(t, "s3cret", rec)
	audit := &captureAudit{}
	svc := newIdentity(repo, newMemRevocations(), audit)

	raw, got, err := svc.Login(context.Background(), rec.Email, "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.Email != rec.Email {
		t.Fatalf("unexpected profile record: %+v", got)
	}

	claims, err := token.NewCodec("identity-secret", time.Hour).Verify(raw)
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if claims.UserType != "avaliador" {
		t.Fatalf("user_type = %q, want avaliador", claims.UserType)
	}
	if claims.Subject != rec.ID {
		t.Fatalf("subject = %d, want %d", claims.Subject, rec.ID)
	}

	ev, ok := audit.last()
	if !ok || ev.Type != domain.AuthLoginSucceeded || ev.Subject != rec.Email {
		t.Fatalf("expected login_succeeded audit event, got %+v", ev)
	}
}

func TestIdentity_LoginWrongPassword(t *testing.T) {
	repo := newStubAccountRepo()
	rec := reviewerRecord()
	rec.Active = true
	repo.add(t, "goodpass", rec)
	audit := &captureAudit{}
	svc := newIdentity(repo, newMemRevocations(), audit)

	if _, _, err := svc.Login(context.Background(), rec.Email, "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if ev, ok := audit.last(); !ok || ev.Type != domain.AuthLoginFailed {
		t.Fatalf("expected login_failed audit event, got %+v", ev)
	}
}

func TestIdentity_LoginUnknownAccount(t *testing.T) {
	svc := newIdentity(newStubAccountRepo(), newMemRevocations(), &captureAudit{})

	if _, _, err := svc.Login(context.Background(), "ghost@example.edu", "pw"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestIdentity_LoginEmptyCredentials(t *testing.T) {
	svc := newIdentity(newStubAccountRepo(), newMemRevocations(), &captureAudit{})

	if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestIdentity_LoginDisabledAccount(t *testing.T) {
	repo := newStubAccountRepo()
	rec := reviewerRecord()
	rec.Active = false
	repo.add(t, "pw", rec)
	svc := newIdentity(repo, newMemRevocations(), &captureAudit{})

	if _, _, err := svc.Login(context.Background(), rec.Email, "pw"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestIdentity_ProfileRoundTrip(t *testing.T) {
	repo := newStubAccountRepo()
	rec := reviewerRecord()
	rec.Active = true
	repo.add(t, "pw", rec)
	svc := newIdentity(repo, newMemRevocations(), &captureAudit{})

	raw, _, err := svc.Login(context.Background(), rec.Email, "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	got, err := svc.Profile(context.Background(), raw)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if got.Email != rec.Email || got.ReviewCount == nil {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestIdentity_ProfileRejectsGarbageToken(t *testing.T) {
	svc := newIdentity(newStubAccountRepo(), newMemRevocations(), &captureAudit{})

	if _, err := svc.Profile(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestIdentity_RevokeThenProfileIsRejected(t *testing.T) {
	repo := newStubAccountRepo()
	rec := reviewerRecord()
	rec.Active = true
	repo.add(t, "pw", rec)
	rev := newMemRevocations()
	audit := &captureAudit{}
	svc := newIdentity(repo, rev, audit)

	raw, _, err := svc.Login(context.Background(), rec.Email, "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Revoke(context.Background(), raw); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Profile(context.Background(), raw); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}

	// Tombstone lifetime tracks the credential's remaining lifetime.
	for _, ttl := range rev.m {
		if ttl <= 0 || ttl > time.Hour {
			t.Fatalf("unexpected tombstone ttl: %v", ttl)
		}
	}
}

func TestIdentity_RevokeGarbageTokenIsNoOp(t *testing.T) {
	rev := newMemRevocations()
	svc := newIdentity(newStubAccountRepo(), rev, &captureAudit{})

	if err := svc.Revoke(context.Background(), "expired-or-garbage"); err != nil {
		t.Fatalf("revoking a dead token must be a no-op, got %v", err)
	}
	if len(rev.m) != 0 {
		t.Fatalf("no tombstone expected, got %v", rev.m)
	}
}
