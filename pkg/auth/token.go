// Package auth authenticates requests with bearer tokens issued by the
// identity provider (HS256 JWT, like Supabase Auth issues).
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("no bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims of access tokens.
//
// Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
}

type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier returns a Verifier of tokens signed with secret by HS256.
//
// When issuer is not empty, tokens should be issued by it.
func NewVerifier(secret string, issuer string) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Verifier{secret: []byte(secret), parser: jwt.NewParser(opts...)}
}

// Verify checks the token and returns its claims.
//
// # Returns
//
// - *Claims: claims with non-empty Subject.
//
// - error: ErrInvalidToken (joined with the cause) when the token is not acceptable.
func (v *Verifier) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return claims, nil
}

// Sign issues a token with the claims, signed by HS256.
func Sign(secret string, claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// BearerToken extracts the token from a value of Authorization header.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrNoToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
