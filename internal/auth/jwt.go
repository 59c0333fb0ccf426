// Package auth provides JWT token generation and validation plus the
// authentication middleware for the image vault API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User signs up or logs in with email+password at /api/auth/signup|login
// 2. Server verifies the credentials and issues a JWT access token
// 3. The token is returned in the JSON body AND set as an HttpOnly "jwt" cookie
// 4. On subsequent API calls, middleware reads the cookie (or the
//    Authorization: Bearer header), validates the JWT, confirms the user
//    still exists, and sets the identity in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. All the information needed (userID, email, expiry) is inside the
// signed token. The signature ensures nobody can tamper with it without the
// secret key. The flip side: logout is purely client-side, a token stays
// valid until it expires.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/imagevault/internal/apperror"
)

// DefaultTokenTTL is the access-token lifetime used when no JWT_EXPIRY is
// configured. 24 hours matches the session length the web client expects.
const DefaultTokenTTL = 24 * time.Hour

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens, and the
// token lifetime. The same secret must be used for both operations.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// Identity is the authenticated principal embedded in a token.
type Identity struct {
	UserID string
	Email  string
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. A non-positive ttl falls back to DefaultTokenTTL.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime. Handlers use it to set the
// cookie Max-Age to match the token expiry.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims (Issuer,
// Subject, ExpiresAt, IssuedAt) and adds the user's email so the
// middleware can expose the identity without an extra lookup.
//
// "sub" (Subject) stores the internal user ID — the standard JWT claim
// for identifying who the token belongs to.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generate creates and signs a new JWT access token for the given identity.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key for signing
// and verifying. Fine for a single-server deployment.
func (s *TokenService) Generate(id Identity) (string, error) {
	return s.generate(id, s.ttl)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests to produce already-expired tokens.
func (s *TokenService) GenerateWithDuration(id Identity, d time.Duration) (string, error) {
	return s.generate(id, d)
}

func (s *TokenService) generate(id Identity, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "imagevault",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the identity it
// asserts.
//
// Checks performed by the jwt library:
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches "imagevault" (rejects tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// Any failure is reported as apperror.InvalidCredential so the caller can
// map it straight to 401 without inspecting jwt library internals.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("imagevault"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperror.InvalidCredential("token expired")
		}
		return Identity{}, apperror.InvalidCredential("invalid token")
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, apperror.InvalidCredential("invalid token claims")
	}

	if c.Subject == "" {
		return Identity{}, apperror.InvalidCredential("token has no subject")
	}

	return Identity{UserID: c.Subject, Email: c.Email}, nil
}
