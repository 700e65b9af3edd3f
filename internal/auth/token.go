// Package auth issues and verifies the signed session tokens for the two
// principals of the API: regular users and the admin.
package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Role distinguishes the two token principals.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const (
	Issuer        = "inkwell-api"
	UserAudience  = "inkwell-client"
	AdminAudience = "inkwell-admin"
	// TokenTTL is the lifetime of every issued token.
	TokenTTL = time.Hour
)

var errEmptySecret = errors.New("JWT secret not configured")

// Principal is the verified identity carried by a token.
type Principal struct {
	ID        uint
	Username  string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

// Claims is the JWT payload.
type Claims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs tokens with HS256 and checks the Redis revocation list.
// A nil Redis client disables revocation checks.
type TokenManager struct {
	secret []byte
	rdb    *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager for the shared secret.
func NewTokenManager(secret string, rdb *redis.Client) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		rdb:    rdb,
		ttl:    TokenTTL,
		now:    time.Now,
	}
}

func audienceFor(role Role) string {
	if role == RoleAdmin {
		return AdminAudience
	}
	return UserAudience
}

// Issue signs a token for p and returns it with its expiry.
func (m *TokenManager) Issue(p Principal) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, errEmptySecret
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		Username: p.Username,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.ID), 10),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{audienceFor(p.Role)},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies tokenString for the expected role: signature, issuer,
// audience, expiry and revocation.
func (m *TokenManager) Parse(ctx context.Context, tokenString string, role Role) (*Principal, error) {
	if tokenString == "" {
		return nil, models.NewUnauthorizedError("Authorization required")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(audienceFor(role)),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	if claims.Role != role {
		return nil, models.NewUnauthorizedError("Token not valid for this resource")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || id == 0 {
		return nil, models.NewUnauthorizedError("Invalid subject claim")
	}

	if m.rdb != nil && claims.ID != "" {
		revoked, err := m.rdb.Exists(ctx, cache.RevokedTokenKey(claims.ID)).Result()
		if err == nil && revoked > 0 {
			return nil, models.NewUnauthorizedError("Token has been revoked")
		}
	}

	return &Principal{
		ID:        uint(id),
		Username:  claims.Username,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke blacklists p's token id until the token would have expired anyway.
func (m *TokenManager) Revoke(ctx context.Context, p *Principal) error {
	if m.rdb == nil || p == nil || p.TokenID == "" {
		return nil
	}
	ttl := p.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.rdb.Set(ctx, cache.RevokedTokenKey(p.TokenID), "1", ttl).Err()
}
