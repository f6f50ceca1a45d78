package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/MKhiriev/go-reg-assist/models"
)

// oneTimeTokenBytes is the entropy of a freshly issued one-time token.
// 32 random bytes make brute-forcing the stored hash infeasible, which is
// why a single fast hash (not a KDF) is sufficient at rest.
const oneTimeTokenBytes = 32

// NewOneTimeToken issues a fresh verification or password-reset token valid
// for ttl.
//
// The plaintext is hex-encoded cryptographically random data; it is returned
// only so the caller can embed it in an outbound email link and must never
// be persisted. The credential store keeps Hash instead — a database leak
// therefore exposes no usable links.
func NewOneTimeToken(ttl time.Duration) (models.OneTimeToken, error) {
	buf := make([]byte, oneTimeTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return models.OneTimeToken{}, fmt.Errorf("error generating one-time token: %w", err)
	}

	plaintext := hex.EncodeToString(buf)

	return models.OneTimeToken{
		Plaintext: plaintext,
		Hash:      HashOneTimeToken(plaintext),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// HashOneTimeToken computes the hex-encoded SHA-256 digest of a plaintext
// one-time token. This is the at-rest representation of the token.
//
// SHA-256 without a work factor is deliberate: one-time tokens are
// high-entropy random values, unlike passwords (see HashPassword).
func HashOneTimeToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// MatchOneTimeToken reports whether the plaintext candidate corresponds to
// the stored token hash. The comparison is constant-time.
func MatchOneTimeToken(candidate, storedHash string) bool {
	if candidate == "" || storedHash == "" {
		return false
	}
	candidateHash := HashOneTimeToken(candidate)
	return subtle.ConstantTimeCompare([]byte(candidateHash), []byte(storedHash)) == 1
}
