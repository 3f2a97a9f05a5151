package service

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "inventory-system/pkg/errors"
)

// JwtCustomClaim - содержимое токена сессии. SessionID связывает токен
// с подключением в менеджере подключений.
type JwtCustomClaim struct {
	UserID    uint64 `json:"userId"`
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(userID uint64, role, sessionID string) (string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetTokenTTL() time.Duration
}

type jwtService struct {
	secretKey string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewJWTService(secretKey string, tokenTTL time.Duration) JWTService {
	return &jwtService{
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func (s *jwtService) GenerateToken(userID uint64, role, sessionID string) (string, error) {
	now := s.now()
	claims := &JwtCustomClaim{
		UserID:    userID,
		Role:      role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", fmt.Errorf("не удалось подписать токен: %w", err)
	}
	return signed, nil
}

func (s *jwtService) GetTokenTTL() time.Duration {
	return s.tokenTTL
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(s.secretKey), nil
		default:
			return nil, apperrors.ErrInvalidSigningMethod
		}
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		if errors.Is(err, apperrors.ErrInvalidSigningMethod) {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid || claims.SessionID == "" || claims.UserID == 0 {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
