package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Claims identify an admin session. There is no revocation: a token stays
// valid until exp even if the account is deactivated afterwards.
type Claims struct {
	AdminID  string `json:"_id"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	logger    zerolog.Logger
}

func NewTokenService(secretKey string, ttl time.Duration, logger zerolog.Logger) *TokenService {
	return &TokenService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		logger:    logger,
	}
}

func (s *TokenService) Issue(adminID, role string, isActive bool) (string, error) {
	now := time.Now()

	claims := &Claims{
		AdminID:  adminID,
		Role:     role,
		IsActive: isActive,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error generating token")
		return "", err
	}

	return tokenString, nil
}

// Verify returns ErrUnauthorized for any token that is malformed, forged,
// expired or minted for an inactive account.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secretKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Join(ErrUnauthorized, err)
	}

	if !token.Valid || claims.AdminID == "" || !claims.IsActive {
		return nil, ErrUnauthorized
	}

	return claims, nil
}
