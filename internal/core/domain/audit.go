package domain

import (
	"context"
	"time"
)

// AuthEventType labels an entry in the authentication audit trail.
type AuthEventType string

const (
	AuthLoginSucceeded AuthEventType = "login_succeeded"
	AuthLoginFailed    AuthEventType = "login_failed"
	AuthTokenRevoked   AuthEventType = "token_revoked"
	AuthTokenRejected  AuthEventType = "token_rejected"
)

// AuthEvent records a single authentication outcome. Subject is the account
// email when known, otherwise whatever identifier the caller presented.
type AuthEvent struct {
	Type     AuthEventType
	Subject  string
	RemoteIP string
	Detail   string
	At       time.Time
}

type remoteIPKey struct{}

// WithRemoteIP attaches the caller's address to the context so audit events
// emitted deeper in the stack can carry it.
func WithRemoteIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, remoteIPKey{}, ip)
}

// RemoteIP returns the address attached by WithRemoteIP, or "".
func RemoteIP(ctx context.Context) string {
	ip, _ := ctx.Value(remoteIPKey{}).(string)
	return ip
}
