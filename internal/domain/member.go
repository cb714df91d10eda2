package domain

import "time"

// Member roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Member represents an account created on first OAuth2 login.
// The pair (Provider, ProviderID) is unique; a member is created exactly once
// per external identity and only read/updated afterwards.
type Member struct {
	ID         int64     `json:"id" db:"member_id"`
	Name       string    `json:"name" db:"name"`
	Role       string    `json:"role" db:"role"`
	Provider   string    `json:"provider" db:"provider"`
	ProviderID string    `json:"provider_id" db:"provider_id"`
	Diseases   []string  `json:"diseases" db:"diseases"`
	Allergies  []string  `json:"allergies" db:"allergies"`
	Onboarded  bool      `json:"onboarded" db:"onboarded"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ExternalIdentity is the verified tuple produced by an OAuth2 provider handshake.
type ExternalIdentity struct {
	Provider   string
	ProviderID string
	Name       string
}
