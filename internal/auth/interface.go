package auth

import "filenest/internal/domain/models"

// TokenVerifier validates bearer tokens and yields the caller's claims.
// The storage layers never see tokens; they consume only the stable
// user id extracted here.
type TokenVerifier interface {
	// VerifyToken validates a JWT and returns its claims. Returns an
	// error for invalid, expired or incorrectly signed tokens.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
