// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tokengate/config"
	"tokengate/internal/domain/entity"
	"tokengate/internal/domain/service"
	"tokengate/internal/errors"
)

// Claims is the fixed claim set carried by every token.
// The JSON names are the short forms emitted for the Name and NameIdentifier
// claim types, so tokens from earlier deployments keep validating.
type Claims struct {
	Name   string `json:"unique_name"`
	NameID string `json:"nameid"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using HS512 JWTs.
type jwtService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration
	now        func() time.Time
}

// NewJWTService builds the token service from the shared secret in cfg.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Token == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	accessTTL, refreshTTL := 15*time.Minute, 30*24*time.Hour
	if cfg.Auth != nil {
		if cfg.Auth.AccessTTL > 0 {
			accessTTL = cfg.Auth.AccessTTL
		}
		if cfg.Auth.RefreshTTL > 0 {
			refreshTTL = cfg.Auth.RefreshTTL
		}
	}

	svc := newJWTService([]byte(cfg.SecretKey.Token), accessTTL, refreshTTL, time.Now)
	if cfg.Auth != nil && cfg.Auth.ClockSkew > 0 {
		svc.leeway = cfg.Auth.ClockSkew
	}

	return svc, nil
}

func newJWTService(secret []byte, accessTTL, refreshTTL time.Duration, now func() time.Time) *jwtService {
	return &jwtService{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
	}
}

// Mint creates a signed token for principal with the lifetime of kind.
func (s *jwtService) Mint(principal entity.Principal, kind entity.TokenKind) (entity.IssuedToken, error) {
	ttl := s.ttl(kind)
	if ttl == 0 {
		return entity.IssuedToken{}, errors.Errorf("unknown token kind %q", kind)
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(ttl)

	claims := Claims{
		Name:   principal.Username,
		NameID: strconv.FormatInt(principal.ID, 10),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
	if err != nil {
		return entity.IssuedToken{}, errors.Wrap(err, "failed to sign token")
	}

	// NumericDate has second precision; report the expiry actually encoded.
	return entity.IssuedToken{
		Kind:      kind,
		Value:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate verifies the HS512 signature and, if checkExpiry is set, the expiry.
// Every failure collapses into an invalid result.
func (s *jwtService) Validate(tokenString string, checkExpiry bool) service.TokenResult {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
	}
	if checkExpiry {
		opts = append(opts, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now), jwt.WithLeeway(s.leeway))
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return service.InvalidToken(errors.Wrap(err, "failed to parse token"))
	}
	if !token.Valid {
		return service.InvalidToken(jwt.ErrTokenSignatureInvalid)
	}

	id, err := strconv.ParseInt(claims.NameID, 10, 64)
	if err != nil {
		return service.InvalidToken(errors.Wrap(err, "malformed nameid claim"))
	}

	return service.ValidToken(entity.Principal{ID: id, Username: claims.Name})
}

// ttl returns the lifetime for kind, or zero for an unknown kind.
func (s *jwtService) ttl(kind entity.TokenKind) time.Duration {
	switch kind {
	case entity.TokenKindAccess:
		return s.accessTTL
	case entity.TokenKindRefresh:
		return s.refreshTTL
	default:
		return 0
	}
}
