// Package jwtmw issues and verifies HS256 bearer tokens and provides the gin middleware that consumes them.
package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"courtier_backend/internal/platform/apperr"
)

// Claims is the token payload. Login tokens carry only Email; reset tokens also carry UserID.
type Claims struct {
	UserID uint   `json:"id,omitempty"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Generator signs and parses tokens with a single HMAC secret.
type Generator struct {
	secret    []byte
	accessTTL time.Duration
	resetTTL  time.Duration
	now       func() time.Time
}

// NewGenerator creates a Generator. accessTTL applies to login tokens and resetTTL to password-reset tokens.
func NewGenerator(secret string, accessTTL, resetTTL time.Duration) *Generator {
	return &Generator{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		resetTTL:  resetTTL,
		now:       time.Now,
	}
}

// Sign sets issued-at and expiry on claims and returns the signed token.
func (g *Generator) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := g.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// GenerateAccessToken issues a login token with payload {email}.
func (g *Generator) GenerateAccessToken(email string) (string, error) {
	return g.Sign(Claims{Email: email}, g.accessTTL)
}

// GenerateResetToken issues a password-reset token with payload {id, email}.
// Each token gets a random jti so two tokens issued in the same second still differ.
func (g *Generator) GenerateResetToken(userID uint, email string) (string, error) {
	return g.Sign(Claims{
		UserID:           userID,
		Email:            email,
		RegisteredClaims: jwt.RegisteredClaims{ID: uuid.NewString()},
	}, g.resetTTL)
}

// Parse verifies the signature and expiry of token and returns its claims.
// Any failure is reported as an apperr.KindInvalidToken error.
func (g *Generator) Parse(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		// HMAC以外の署名アルゴリズムは拒否
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidToken, "invalid or expired token", err)
	}
	return &claims, nil
}

// ParseEmail is Parse for callers that only need the email claim.
func (g *Generator) ParseEmail(token string) (string, error) {
	claims, err := g.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}
