package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager handles generation and validation of JWT tokens
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

// Identity is what a token says about its bearer.
type Identity struct {
	UserID   string
	Role     string
	Email    string
	Username string
}

type Claims struct {
	UserID    string `json:"uid"`
	Role      string `json:"role,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Role: c.Role, Email: c.Email, Username: c.Username}
}

func (m *JWTManager) sign(id Identity, sid string, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID:    id.UserID,
		Role:      id.Role,
		Email:     id.Email,
		Username:  id.Username,
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			Issuer:    m.Issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

func (m *JWTManager) GenerateAccessToken(id Identity, sid string) (string, time.Time, error) {
	return m.sign(id, sid, m.AccessTTL, m.AccessSecret)
}

// GenerateRefreshToken only carries the user and session ids.
func (m *JWTManager) GenerateRefreshToken(userID, sid string) (string, time.Time, error) {
	return m.sign(Identity{UserID: userID}, sid, m.RefreshTTL, m.RefreshSecret)
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.AccessSecret)
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.RefreshSecret)
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
