package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ncb6206/SIKBOO/internal/domain"
)

// ErrInvalidToken covers signature mismatch, malformed structure and expiry.
// Callers never see the underlying cause.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager signs and verifies the compact tokens used for both access and
// refresh credentials. The signing key is static process configuration; there
// is no runtime key rotation.
type JWTManager struct {
	secret             []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, accessTokenExpiry, refreshTokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:             []byte(secret),
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// IssueAccessToken issues a short-lived access token carrying the member's roles
func (j *JWTManager) IssueAccessToken(memberID int64, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(memberID, 10),
		"memberId": memberID,
		"roles":    roles,
		"typ":      domain.TokenTypeAccess,
		"iat":      now.Unix(),
		"exp":      now.Add(j.accessTokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// IssueRefreshToken issues a long-lived refresh token
func (j *JWTManager) IssueRefreshToken(memberID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(memberID, 10),
		"typ": domain.TokenTypeRefresh,
		"iat": now.Unix(),
		"exp": now.Add(j.refreshTokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the claims. It does NOT
// check the "typ" claim; a refresh endpoint must reject an access-typed
// token itself, and vice versa.
func (j *JWTManager) Verify(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", ErrInvalidToken)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	memberID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	typ, ok := claims["typ"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	iat, _ := claims["iat"].(float64)

	tokenClaims := &domain.TokenClaims{
		MemberID: memberID,
		Type:     typ,
		Roles:    rolesFromClaims(claims),
		Iat:      int64(iat),
		Exp:      int64(exp),
	}

	if tokenClaims.IsExpired() {
		return nil, ErrInvalidToken
	}

	return tokenClaims, nil
}

// AccessTokenMaxAge returns the access token lifetime in whole seconds
func (j *JWTManager) AccessTokenMaxAge() int {
	return int(j.accessTokenExpiry.Seconds())
}

// RefreshTokenMaxAge returns the refresh token lifetime in whole seconds
func (j *JWTManager) RefreshTokenMaxAge() int {
	return int(j.refreshTokenExpiry.Seconds())
}

// RefreshTokenExpiry returns the refresh token lifetime
func (j *JWTManager) RefreshTokenExpiry() time.Duration {
	return j.refreshTokenExpiry
}

func rolesFromClaims(claims jwt.MapClaims) []string {
	raw, ok := claims["roles"].([]interface{})
	if !ok {
		return nil
	}

	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}
