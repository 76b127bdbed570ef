package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Scope limits what a token may reach.
type Scope string

// Token scopes.
const (
	ScopeRead   Scope = "read"
	ScopeStream Scope = "stream"
)

// Issuer is the iss claim of every token.
const Issuer = "zenossctl"

const defaultTTL = 60 * time.Minute

// Errors returned by token operations.
var (
	ErrTokenInvalid  = errors.New("invalid token")
	ErrScopeDenied   = errors.New("token scope does not allow this request")
	ErrSecretMissing = errors.New("jwt secret is not configured")
)

// Claims extends the registered JWT claims with a scope.
type Claims struct {
	jwt.RegisteredClaims
	Scope Scope `json:"scope"`
}

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	return s == ScopeRead || s == ScopeStream
}

// Allows reports whether a token of scope s may use a route needing want.
// A read token covers the stream; a stream token covers nothing else.
func (s Scope) Allows(want Scope) bool {
	if s == want {
		return true
	}
	return s == ScopeRead && want == ScopeStream
}

// GenerateToken signs a token for subject.
//
// Parameters:
//   - subject: Operator or service name recorded in the sub claim
//   - scope: What the token may reach
//   - secret: HMAC key from relay.api.jwt_secret
//   - ttl: Lifetime; zero or negative means 60 minutes
//
// Returns:
//   - string: The signed token
//   - error: If the inputs are invalid or signing fails
func GenerateToken(subject string, scope Scope, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrSecretMissing
	}
	if subject == "" {
		return "", fmt.Errorf("%w: subject is required", ErrTokenInvalid)
	}
	if !scope.Valid() {
		return "", fmt.Errorf("%w: unknown scope %q", ErrTokenInvalid, scope)
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Scope: scope,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token's signature, expiry and issuer and returns its claims.
func ParseToken(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrSecretMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if !claims.Scope.Valid() {
		return nil, fmt.Errorf("%w: unknown scope %q", ErrTokenInvalid, claims.Scope)
	}

	return claims, nil
}
