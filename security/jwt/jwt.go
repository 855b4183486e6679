// Package jwt issues and verifies HS256 access tokens.
package jwt

import (
	"errors"
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenError represents JWT token related errors
type TokenError string

func (e TokenError) Error() string {
	return string(e)
}

const (
	DefaultAccessTokenExpire = time.Hour * 24

	ErrNeedTokenProvider = TokenError("cannot sign token without token provider")
	ErrInvalidToken      = TokenError("invalid token")
	ErrTokenExpired      = TokenError("token expired")
	ErrTokenParsing      = TokenError("token parsing error")
)

// Claims identifies the authenticated user.
type Claims struct {
	UserID string
	Role   string
	// ExpiresAt is the token expiry.
	ExpiresAt time.Time
}

// TokenManager handles JWT token operations
type TokenManager struct {
	key    string
	expire time.Duration
	now    func() time.Time
}

// NewTokenManager creates a new TokenManager instance
func NewTokenManager(key string, expire time.Duration) *TokenManager {
	if expire <= 0 {
		expire = DefaultAccessTokenExpire
	}
	return &TokenManager{key: key, expire: expire, now: time.Now}
}

// Expire returns the lifetime of issued tokens.
func (jtm *TokenManager) Expire() time.Duration { return jtm.expire }

// validateKey validates the token key
func (jtm *TokenManager) validateKey() error {
	if jtm.key == "" {
		return ErrNeedTokenProvider
	}
	return nil
}

// GenerateAccessToken signs an access token for the user.
func (jtm *TokenManager) GenerateAccessToken(userID, role string) (string, error) {
	if err := jtm.validateKey(); err != nil {
		return "", err
	}
	now := jtm.now()
	claims := jwtstd.MapClaims{
		"jti": uuid.NewString(),
		"sub": userID,
		"payload": map[string]any{
			"user_id": userID,
			"role":    role,
		},
		"iat": now.Unix(),
		"exp": now.Add(jtm.expire).Unix(),
	}
	t := jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, claims)
	return t.SignedString([]byte(jtm.key))
}

// ParseToken verifies tokenString and extracts its claims.
func (jtm *TokenManager) ParseToken(tokenString string) (*Claims, error) {
	if err := jtm.validateKey(); err != nil {
		return nil, err
	}
	token, err := jwtstd.Parse(tokenString, func(token *jwtstd.Token) (any, error) {
		return []byte(jtm.key), nil
	}, jwtstd.WithValidMethods([]string{jwtstd.SigningMethodHS256.Alg()}), jwtstd.WithTimeFunc(jtm.now))
	if err != nil {
		if errors.Is(err, jwtstd.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	mc, ok := token.Claims.(jwtstd.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	payload, ok := mc["payload"].(map[string]any)
	if !ok {
		return nil, ErrTokenParsing
	}
	userID, _ := payload["user_id"].(string)
	role, _ := payload["role"].(string)
	if userID == "" || role == "" {
		return nil, ErrTokenParsing
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrTokenParsing
	}
	return &Claims{UserID: userID, Role: role, ExpiresAt: exp.Time}, nil
}
