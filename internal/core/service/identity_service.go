package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/confhub/conference-portal/internal/api/metrics"
	"github.com/confhub/conference-portal/internal/core/domain"
	"github.com/confhub/conference-portal/internal/core/ports"
	"github.com/confhub/conference-portal/internal/core/token"
)

// IdentityService is the server side of the auth contract: it exchanges
// credentials for signed tokens, resolves tokens to profile records, and
// tombstones revoked tokens.
type IdentityService struct {
	repo        ports.AccountRepository
	codec       *token.Codec
	revocations ports.RevocationList
	audit       ports.AuditRecorder
	log         zerolog.Logger
}

func NewIdentityService(repo ports.AccountRepository, codec *token.Codec, revocations ports.RevocationList, audit ports.AuditRecorder, log zerolog.Logger) *IdentityService {
	return &IdentityService{
		repo:        repo,
		codec:       codec,
		revocations: revocations,
		audit:       audit,
		log:         log,
	}
}

// Login verifies the password against the account repository and mints a
// credential whose user_type claim is derived by classifying the account's
// profile record.
func (s *IdentityService) Login(ctx context.Context, email, password string) (string, domain.ProfileRecord, error) {
	if email == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", domain.ProfileRecord{}, domain.ErrInvalidCredentials
	}

	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.recordLoginFailure(ctx, email, err)
		return "", domain.ProfileRecord{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		s.recordLoginFailure(ctx, email, domain.ErrInvalidCredentials)
		return "", domain.ProfileRecord{}, domain.ErrInvalidCredentials
	}

	if !acct.Record.Active {
		metrics.LoginAttemptsTotal.WithLabelValues("disabled").Inc()
		s.audit.Record(domain.AuthEvent{
			Type:     domain.AuthLoginFailed,
			Subject:  email,
			RemoteIP: domain.RemoteIP(ctx),
			Detail:   "account disabled",
			At:       time.Now().UTC(),
		})
		return "", domain.ProfileRecord{}, domain.ErrAccountDisabled
	}

	role := domain.Classify(acct.Record).Role
	raw, err := s.codec.Mint(acct.Record.ID, role)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", domain.ProfileRecord{}, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.audit.Record(domain.AuthEvent{
		Type:     domain.AuthLoginSucceeded,
		Subject:  email,
		RemoteIP: domain.RemoteIP(ctx),
		At:       time.Now().UTC(),
	})
	return raw, acct.Record, nil
}

// Profile resolves a credential to its account's profile record. Revoked
// credentials are rejected even while their signature and expiry still
// verify.
func (s *IdentityService) Profile(ctx context.Context, raw string) (domain.ProfileRecord, error) {
	start := time.Now()
	rec, err := s.profile(ctx, raw)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ProfileFetchDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return rec, err
}

func (s *IdentityService) profile(ctx context.Context, raw string) (domain.ProfileRecord, error) {
	claims, err := s.codec.Verify(raw)
	if err != nil {
		return domain.ProfileRecord{}, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.ProfileRecord{}, err
	}
	if revoked {
		metrics.CredentialFailuresTotal.WithLabelValues("revoked").Inc()
		s.audit.Record(domain.AuthEvent{
			Type:     domain.AuthTokenRejected,
			Subject:  claims.ID,
			RemoteIP: domain.RemoteIP(ctx),
			Detail:   "revoked credential presented",
			At:       time.Now().UTC(),
		})
		return domain.ProfileRecord{}, domain.ErrTokenRevoked
	}

	acct, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return domain.ProfileRecord{}, err
	}
	return acct.Record, nil
}

// Revoke tombstones the credential's jti for the remainder of its lifetime.
// Tokens that no longer verify (expired, garbage) have nothing to revoke and
// return nil, keeping logout idempotent.
func (s *IdentityService) Revoke(ctx context.Context, raw string) error {
	claims, err := s.codec.Verify(raw)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt)
	if claims.ID == "" || ttl <= 0 {
		return nil
	}

	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}

	metrics.RevocationsTotal.Inc()
	s.audit.Record(domain.AuthEvent{
		Type:     domain.AuthTokenRevoked,
		Subject:  claims.ID,
		RemoteIP: domain.RemoteIP(ctx),
		At:       time.Now().UTC(),
	})
	return nil
}

// recordLoginFailure folds repository misses and password mismatches into
// the same audit/metric shape. Not-found is deliberately not distinguished
// from a bad password in what the metric exposes.
func (s *IdentityService) recordLoginFailure(ctx context.Context, email string, err error) {
	if errors.Is(err, domain.ErrAccountNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
	} else {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
	}
	s.audit.Record(domain.AuthEvent{
		Type:     domain.AuthLoginFailed,
		Subject:  email,
		RemoteIP: domain.RemoteIP(ctx),
		Detail:   err.Error(),
		At:       time.Now().UTC(),
	})
}
