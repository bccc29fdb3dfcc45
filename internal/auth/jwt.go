// Package auth issues and verifies the bearer tokens of the API.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/erazemk/assetdesk/internal/model"
)

// Issuer is the iss claim of every token.
const Issuer = "assetdesk"

// TokenExpiry is the default token lifetime.
const TokenExpiry = 7 * 24 * time.Hour

// Claims are the JWT claims of a session.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Tenant   string `json:"tenant,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for user in tenant with a fresh JTI.
func GenerateToken(secret string, user *model.User, tenant string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Tenant:   tenant,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Session builds the session user of the claims, taking the contact
// details from office. A nil office leaves them empty.
func (c *Claims) Session(office *model.Office) model.SessionUser {
	s := model.SessionUser{
		UserID:   c.UserID,
		Username: c.Username,
		Tenant:   c.Tenant,
	}
	if office != nil {
		if office.Name != "" {
			s.Tenant = office.Name
		}
		s.Email = office.Email
		s.Phone = office.Phone
		s.Country = office.Country
		s.City = office.City
		s.State = office.State
		s.ZipCode = office.ZipCode
		s.Address = office.Address
	}
	return s
}
