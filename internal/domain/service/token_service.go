package service

import (
	"errors"
	"time"

	"tokengate/internal/domain/entity"
)

var errTokenInvalid = errors.New("token invalid")

// TokenService mints and validates signed bearer tokens.
// Both token kinds share one secret and differ only in lifetime.
type TokenService interface {
	// Mint signs a token for the principal with the lifetime of kind.
	Mint(principal entity.Principal, kind entity.TokenKind) (entity.IssuedToken, error)

	// Validate checks the signature and, when checkExpiry is set, the expiry.
	// Issuer and audience are never checked.
	Validate(token string, checkExpiry bool) TokenResult
}

// TokenResult is the outcome of Validate: either a principal or an invalid token.
// The reason is kept for logging only; callers branch on Valid.
// The zero value is invalid.
type TokenResult struct {
	principal entity.Principal
	valid     bool
	reason    error
}

// ValidToken builds a successful result.
func ValidToken(principal entity.Principal) TokenResult {
	return TokenResult{principal: principal, valid: true}
}

// InvalidToken builds a failed result. A nil reason still yields an invalid result.
func InvalidToken(reason error) TokenResult {
	if reason == nil {
		reason = errTokenInvalid
	}

	return TokenResult{reason: reason}
}

func (r TokenResult) Valid() bool {
	return r.valid
}

// Principal returns the embedded principal and whether the token was valid.
func (r TokenResult) Principal() (entity.Principal, bool) {
	if !r.valid {
		return entity.Principal{}, false
	}

	return r.principal, true
}

// Reason is the underlying failure, for logs. Nil for valid results.
func (r TokenResult) Reason() error {
	if r.valid {
		return nil
	}
	if r.reason == nil {
		return errTokenInvalid
	}

	return r.reason
}
