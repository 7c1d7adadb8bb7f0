package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/studymatch/backend/database"
)

// Token types carried in the token_type claim.
const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = time.Hour * 24 * 7
)

// ErrTokenExpired lets callers distinguish an expired token from other
// validation failures, so clients can run their refresh-and-retry path.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenRevoked is returned for tokens on the revocation list.
var ErrTokenRevoked = errors.New("token revoked")

// Claims are the JWT claims issued by this server.
type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-secret-key" // Default secret (not recommended for production)
	}
	return []byte(secret)
}

func generateToken(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "studymatch-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// GenerateTokenPair creates a new access/refresh token pair for a user.
func GenerateTokenPair(userID uint) (access string, refresh string, err error) {
	access, err = generateToken(userID, AccessToken, accessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = generateToken(userID, RefreshToken, refreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ValidateToken parses and verifies a token of the expected type, checking
// the revocation list when Redis is configured.
func ValidateToken(ctx context.Context, tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("expected %s token, got %s", wantType, claims.TokenType)
	}

	if database.RDB != nil && claims.ID != "" {
		revoked, err := isRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

const revocationKeyPrefix = "revoked:jti:"

// RevokeToken puts the token's jti on the revocation list until the token
// would have expired anyway. No-op when Redis is not configured.
func RevokeToken(ctx context.Context, claims *Claims) error {
	if database.RDB == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	return database.RDB.Set(ctx, revocationKeyPrefix+claims.ID, "revoked", ttl).Err()
}

func isRevoked(ctx context.Context, jti string) (bool, error) {
	err := database.RDB.Get(ctx, revocationKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
