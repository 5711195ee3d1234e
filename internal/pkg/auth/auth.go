// Package auth issues and verifies the JWTs that identify drivers, facility
// workers and dispatchers to the API.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Actor roles recognized by the API.
const (
	RoleDriver     = "driver"
	RoleFacility   = "facility"
	RoleDispatcher = "dispatcher"
	RoleCustomer   = "customer"
)

// ErrInvalidToken is returned when a token fails parsing or verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims defines the payload for the JWT.
type Claims struct {
	ActorID string `json:"actorID"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies actor tokens with a shared HMAC secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer with the given secret and token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate signs a token for the actor.
func (i *TokenIssuer) Generate(actorID, role string) (string, error) {
	claims := &Claims{
		ActorID: actorID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse verifies a token string and returns its claims.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
