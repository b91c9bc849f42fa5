package domain

import "time"

// Role identifies which profile variant an authenticated user represents.
// The values double as the token's user_type claim and are always compared
// in lower case.
type Role string

const (
	RoleAuthor    Role = "autor"
	RoleReviewer  Role = "avaliador"
	RoleOrganizer Role = "organizador"
	RoleUnknown   Role = ""
)

// Profile holds the base fields shared by every profile variant.
type Profile struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Institution  string    `json:"institution"`
	Country      string    `json:"country"`
	RegisteredAt time.Time `json:"registered_at"`
	Active       bool      `json:"active"`
	RegistryURL  string    `json:"registry_url,omitempty"`
}

// ProfileRecord is the undiscriminated record returned by the identity
// endpoint. There is no role field: variant fields are pointers (or nilable
// slices) and their presence, not their value, carries the role information.
type ProfileRecord struct {
	ID           int64     `json:"id" bson:"id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Institution  string    `json:"institution" bson:"institution"`
	Country      string    `json:"country" bson:"country"`
	RegisteredAt time.Time `json:"registered_at" bson:"registered_at"`
	Active       bool      `json:"active" bson:"active"`
	RegistryURL  string    `json:"registry_url,omitempty" bson:"registry_url,omitempty"`

	// Author fields.
	Biography     *string `json:"biography,omitempty" bson:"biography,omitempty"`
	ResearchArea  *string `json:"research_area,omitempty" bson:"research_area,omitempty"`
	PublicationID *string `json:"publication_id,omitempty" bson:"publication_id,omitempty"`

	// Reviewer fields.
	Specialties []string `json:"specialties,omitempty" bson:"specialties,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty" bson:"review_count,omitempty"`
	Available   *bool    `json:"available,omitempty" bson:"available,omitempty"`

	// Organizer fields.
	JobTitle    *string  `json:"job_title,omitempty" bson:"job_title,omitempty"`
	Permissions []string `json:"permissions,omitempty" bson:"permissions,omitempty"`
}

// base extracts the shared profile fields.
func (r ProfileRecord) base() Profile {
	return Profile{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Institution:  r.Institution,
		Country:      r.Country,
		RegisteredAt: r.RegisteredAt,
		Active:       r.Active,
		RegistryURL:  r.RegistryURL,
	}
}

// AuthorProfile is the variant payload of an author.
type AuthorProfile struct {
	Biography     string `json:"biography"`
	ResearchArea  string `json:"research_area"`
	PublicationID string `json:"publication_id"`
}

// ReviewerProfile is the variant payload of a reviewer.
type ReviewerProfile struct {
	Specialties []string `json:"specialties"`
	ReviewCount int      `json:"review_count"`
	Available   bool     `json:"available"`
}

// OrganizerProfile is the variant payload of an organizer.
type OrganizerProfile struct {
	JobTitle    string   `json:"job_title"`
	Permissions []string `json:"permissions"`
}

// Principal is a profile record tagged with exactly one role variant by
// Classify. At most one of Author, Reviewer, Organizer is non-nil, and it
// matches Role. Downstream code switches on Role instead of re-inspecting
// raw record fields.
type Principal struct {
	Role      Role              `json:"role"`
	Profile   Profile           `json:"profile"`
	Author    *AuthorProfile    `json:"author,omitempty"`
	Reviewer  *ReviewerProfile  `json:"reviewer,omitempty"`
	Organizer *OrganizerProfile `json:"organizer,omitempty"`
}

// LandingRoute returns the dashboard path a freshly logged-in principal
// should be sent to.
func (p Principal) LandingRoute() string {
	switch p.Role {
	case RoleAuthor:
		return "/author"
	case RoleReviewer:
		return "/reviewer"
	case RoleOrganizer:
		return "/organizer"
	default:
		return "/"
	}
}

// Account pairs a profile record with its login credentials as persisted by
// the account repository.
type Account struct {
	PasswordHash string
	Record       ProfileRecord
}
