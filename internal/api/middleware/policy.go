package middleware

import (
	"strings"

	"github.com/confhub/conference-portal/internal/core/domain"
)

// PolicyEntry maps a path prefix to the role required to enter it.
type PolicyEntry struct {
	Prefix string
	Role   domain.Role
}

// Policy is the static route access policy: an exact-match public allowlist
// checked before anything else, then an ordered prefix table where the first
// match wins. A path matching no entry is not gated.
type Policy struct {
	public  map[string]struct{}
	entries []PolicyEntry
}

// NewPolicy builds a policy from an allowlist of exact public paths and an
// ordered list of gated prefixes. Both are fixed at construction; the policy
// is safe for concurrent reads.
func NewPolicy(public []string, entries []PolicyEntry) Policy {
	set := make(map[string]struct{}, len(public))
	for _, p := range public {
		set[p] = struct{}{}
	}
	return Policy{public: set, entries: entries}
}

// IsPublic reports whether path is on the exact-match allowlist.
func (p Policy) IsPublic(path string) bool {
	_, ok := p.public[path]
	return ok
}

// RequiredRole returns the role gating path, scanning entries in order and
// stopping at the first prefix match. The second return is false when no
// entry matches.
func (p Policy) RequiredRole(path string) (domain.Role, bool) {
	for _, e := range p.entries {
		if strings.HasPrefix(path, e.Prefix) {
			return e.Role, true
		}
	}
	return domain.RoleUnknown, false
}

// DefaultPolicy is the portal's route map. Each role owns its dashboard
// subtree and API docs are organizer-only. The allowlist carries the pages
// reachable while logged out plus the auth collaborator endpoints, which do
// their own credential handling with 401 semantics instead of redirects.
func DefaultPolicy() Policy {
	return NewPolicy(
		[]string{
			"/", "/login", "/forbidden",
			"/auth/login", "/auth/logout", "/auth/profile", "/session",
			"/health", "/health/ready", "/metrics",
		},
		[]PolicyEntry{
			{Prefix: "/author", Role: domain.RoleAuthor},
			{Prefix: "/reviewer", Role: domain.RoleReviewer},
			{Prefix: "/organizer", Role: domain.RoleOrganizer},
			{Prefix: "/swagger", Role: domain.RoleOrganizer},
		},
	)
}
