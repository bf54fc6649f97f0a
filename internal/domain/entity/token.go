package entity

import "time"

// TokenKind selects a token's lifetime and the cookie it travels in.
// It is not encoded inside the token.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// IssuedToken is a freshly minted, serialized bearer credential.
type IssuedToken struct {
	Kind      TokenKind
	Value     string
	ExpiresAt time.Time
}

// TokenPair is what a successful login or refresh hands to the transport.
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
