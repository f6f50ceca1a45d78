package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the JWT claim set carried by session tokens.
//
// It extends the registered claims (sub = account ID, iss, aud, iat, exp)
// with the account email and verification flag so that middleware can reject
// stale-unverified sessions without a database round trip.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Email is the account email at token issuance time.
	Email string `json:"email"`

	// EmailVerified is the account's verification flag at issuance time.
	EmailVerified bool `json:"email_verified"`
}

// Token wraps a parsed or freshly issued session JWT with convenience
// accessors for authentication flows.
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be transmitted in HTTP headers.
// UserID is a cached copy of the "sub" claim.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Excluded from JSON serialization; only the compact string form is
	// meaningful outside the server process.
	*jwt.Token `json:"-"`

	// Claims is the decoded session claim set.
	Claims SessionClaims `json:"-"`

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the owner account ID extracted from the "sub" claim.
	UserID string `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}

// OneTimeToken is a freshly issued verification or password-reset token.
//
// Plaintext is returned exactly once, to be embedded in an outbound email
// link; only Hash is ever persisted.
type OneTimeToken struct {
	// Plaintext is the high-entropy random token value. Never stored.
	Plaintext string

	// Hash is the hex-encoded SHA-256 digest of Plaintext. This is what the
	// credential store persists and what candidates are matched against.
	Hash string

	// ExpiresAt bounds the token's validity.
	ExpiresAt time.Time
}
