package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/service TokenGenerator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/akiliz/swedish-eco-property-hub-sub000/config"
	autherror "github.com/akiliz/swedish-eco-property-hub-sub000/internal/errors"
	"github.com/akiliz/swedish-eco-property-hub-sub000/pkg/clock"
)

type TokenGenerator interface {
	Generate(userID, email string) (string, string, time.Time, error)
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, string, error)
	VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error)
}

type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	ReissueThreshold   time.Duration

	clock  clock.Clock
	logger *zap.Logger
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func NewTokenService(cfg *config.Config, clk clock.Clock, logger *zap.Logger) *TokenService {
	return &TokenService{
		AccessTokenSecret:  cfg.AccessTokenSecret,
		RefreshTokenSecret: cfg.RefreshTokenSecret,
		AccessTokenExpiry:  time.Duration(cfg.AccessExpiryMin) * time.Minute,
		RefreshTokenExpiry: time.Duration(cfg.RefreshExpiryMin) * time.Minute,
		ReissueThreshold:   time.Duration(cfg.ReissueThresholdMin) * time.Minute,
		clock:              clk,
		logger:             logger,
	}
}

func (ts *TokenService) Generate(userID, email string) (string, string, time.Time, error) {
	now := ts.clock.Now()

	accessToken, err := ts.signAccessToken(userID, email, now)
	if err != nil {
		return "", "", time.Time{}, err
	}

	refreshClaims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.RefreshTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
		refreshClaims).SignedString([]byte(ts.RefreshTokenSecret))
	if err != nil {
		return "", "", time.Time{}, err
	}

	return accessToken, refreshToken, now.Add(ts.AccessTokenExpiry), nil
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}

// VerifyAccessToken parses and validates the given access token string.
// When the token is valid but inside the reissue threshold of its expiry,
// a replacement access token is returned alongside the claims. The old
// token stays usable until its natural expiry; failing to sign the
// replacement is not fatal.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, string, error) {
	claims, err := ts.parse(tokenString, ts.AccessTokenSecret)
	if err != nil {
		return nil, "", err
	}

	replacement := ""
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Sub(ts.clock.Now()) < ts.ReissueThreshold {
		replacement, err = ts.signAccessToken(claims.UserID, claims.Email, ts.clock.Now())
		if err != nil {
			ts.logger.Warn("failed to reissue near-expiry access token",
				zap.String("user_id", claims.UserID), zap.Error(err))
			replacement = ""
		}
	}

	return claims, replacement, nil
}

// VerifyRefreshToken checks signature and expiry only; whether the token is
// still redeemable is decided against the stored per-user list.
func (ts *TokenService) VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.parse(tokenString, ts.RefreshTokenSecret)
}

func (ts *TokenService) signAccessToken(userID, email string, now time.Time) (string, error) {
	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.AccessTokenSecret))
}

func (ts *TokenService) parse(tokenString, secret string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(ts.clock.Now))

	if err != nil || !token.Valid {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}
