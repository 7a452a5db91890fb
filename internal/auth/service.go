package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// publishScope marks tokens allowed to push snapshots.
const publishScope = "publish"

// Service issues and validates publisher tokens signed with a shared
// HMAC secret.
type Service struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewService(jwtSecret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// IssueToken signs a token for publisherID.
func (s *Service) IssueToken(publisherID string) (string, error) {
	if publisherID == "" {
		return "", errors.New("issue token: empty publisher id")
	}
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   publisherID,
		"scope": publishScope,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken checks the signature, expiry and scope of tokenString and
// returns the publisher id it was issued for.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("parse token: %w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if scope, _ := claims["scope"].(string); scope != publishScope {
		return "", fmt.Errorf("%w: missing publish scope", ErrInvalidToken)
	}

	publisherID, ok := claims["sub"].(string)
	if !ok || publisherID == "" {
		return "", fmt.Errorf("%w: invalid subject", ErrInvalidToken)
	}

	return publisherID, nil
}
