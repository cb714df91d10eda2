package domain

import "time"

// Token type tags carried in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims represents verified JWT claims.
// Type checking is deliberately left to the caller: a refresh endpoint must
// reject an access-typed token itself, the codec only guarantees signature
// and expiry.
type TokenClaims struct {
	MemberID int64    `json:"member_id"`
	Type     string   `json:"typ"`
	Roles    []string `json:"roles"`
	Iat      int64    `json:"iat"`
	Exp      int64    `json:"exp"`
}

// IsExpired checks if the token is expired
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() >= tc.Exp
}

// TokenPair is a freshly issued access/refresh pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RefreshToken is the persisted record of an active refresh token.
// At most one active record exists per member: rotation deletes all prior
// records for the owner before inserting the replacement.
type RefreshToken struct {
	ID        int64     `json:"id" db:"refresh_id"`
	MemberID  int64     `json:"member_id" db:"member_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expire_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
