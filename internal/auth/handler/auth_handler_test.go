package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akiliz/swedish-eco-property-hub-sub000/config"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/domain"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/handler"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/service"
	autherror "github.com/akiliz/swedish-eco-property-hub-sub000/internal/errors"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/mocks"
	authconstant "github.com/akiliz/swedish-eco-property-hub-sub000/pkg/constant"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fixture struct {
	app  *fiber.App
	repo *mocks.MockUserRepository
	tok  *mocks.MockTokenGenerator
	mfa  *mocks.MockMfaVerifier
	clk  *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &fixture{
		repo: mocks.NewMockUserRepository(ctrl),
		tok:  mocks.NewMockTokenGenerator(ctrl),
		mfa:  mocks.NewMockMfaVerifier(ctrl),
		clk:  &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}

	cfg := &config.Config{
		MaxActiveRefreshTokens: 5,
		LoginMaxAttempts:       5,
		LockDurationSec:        900,
	}
	guard := service.NewAccountGuard(f.repo, cfg, f.clk, zap.NewNop())
	userService := service.NewUserService(f.repo, f.tok, f.mfa, guard, cfg, f.clk, zap.NewNop())

	f.app = fiber.New()
	handler.RegisterRoutes(f.app, handler.NewAuthHandler(userService, f.tok), nil)

	return f
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestAuthHandler_Register_Created(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetByEmail(gomock.Any(), "user@example.com").Return(nil, nil)
	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.app.Test(jsonRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"email":            "user@example.com",
		"password":         "Str0ng!Pw",
		"confirm_password": "Str0ng!Pw",
		"name":             "Test User",
	}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "user@example.com", body["email"])
	assert.NotEmpty(t, body["id"])
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetByEmail(gomock.Any(), "user@example.com").
		Return(&domain.User{ID: "existing"}, nil)

	resp, err := f.app.Test(jsonRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"email":            "user@example.com",
		"password":         "Str0ng!Pw",
		"confirm_password": "Str0ng!Pw",
	}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAuthHandler_Register_WeakPassword(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetByEmail(gomock.Any(), "user@example.com").Return(nil, nil)

	resp, err := f.app.Test(jsonRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"email":            "user@example.com",
		"password":         "weak",
		"confirm_password": "weak",
	}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandler_Register_MalformedBody(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader([]byte("{not json")))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	f := newFixture(t)

	user := &domain.User{
		ID:           "user-id",
		Email:        "user@example.com",
		Name:         "Test User",
		PasswordHash: hashOf(t, "Str0ng!Pw"),
	}

	f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.repo.EXPECT().ClearLockAndTouchLogin(gomock.Any(), user.ID, f.clk.now).Return(nil)
	f.tok.EXPECT().Generate(user.ID, user.Email).
		Return("access-token", "refresh-token", f.clk.now.Add(time.Hour), nil)
	f.tok.EXPECT().GetRefreshTokenExpiry().Return(7 * 24 * time.Hour)
	f.repo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any()).Return(nil)
	f.repo.EXPECT().CountRefreshTokensByUserID(gomock.Any(), user.ID).Return(1, nil)
	f.tok.EXPECT().GetAccessTokenExpiry().Return(time.Hour)

	resp, err := f.app.Test(jsonRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"email":    user.Email,
		"password": "Str0ng!Pw",
	}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "access-token", body["access_token"])
	assert.Equal(t, "refresh-token", body["refresh_token"])
	assert.Equal(t, authconstant.DefaultTokenType, body["token_type"])
	assert.Equal(t, float64(3600), body["expires_in"])
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	f := newFixture(t)

	user := &domain.User{
		ID:           "user-id",
		Email:        "user@example.com",
		PasswordHash: hashOf(t, "Str0ng!Pw"),
	}

	f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.repo.EXPECT().IncrementFailedAttempts(gomock.Any(), user.ID).Return(1, nil)

	resp, err := f.app.Test(jsonRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"email":    user.Email,
		"password": "wrong",
	}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandler_Login_AccountLocked(t *testing.T) {
	f := newFixture(t)

	until := f.clk.now.Add(10 * time.Minute)
	user := &domain.User{
		ID:           "user-id",
		Email:        "user@example.com",
		PasswordHash: hashOf(t, "Str0ng!Pw"),
		LockUntil:    &until,
	}

	f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

	resp, err := f.app.Test(jsonRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"email":    user.Email,
		"password": "Str0ng!Pw",
	}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusLocked, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(600), body["retry_after_seconds"])
}

func TestAuthHandler_Login_MfaRequired(t *testing.T) {
	f := newFixture(t)

	secret := "JBSWY3DPEHPK3PXP"
	user := &domain.User{
		ID:           "user-id",
		Email:        "user@example.com",
		PasswordHash: hashOf(t, "Str0ng!Pw"),
		MfaEnabled:   true,
		MfaSecret:    &secret,
	}

	f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

	resp, err := f.app.Test(jsonRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"email":    user.Email,
		"password": "Str0ng!Pw",
	}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["mfa_required"])
}

func TestAuthHandler_Login_InvalidMfaCode(t *testing.T) {
	f := newFixture(t)

	secret := "JBSWY3DPEHPK3PXP"
	user := &domain.User{
		ID:           "user-id",
		Email:        "user@example.com",
		PasswordHash: hashOf(t, "Str0ng!Pw"),
		MfaEnabled:   true,
		MfaSecret:    &secret,
	}

	f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.mfa.EXPECT().VerifyCode(secret, "000000").Return(false)
	f.repo.EXPECT().IncrementFailedAttempts(gomock.Any(), user.ID).Return(1, nil)

	resp, err := f.app.Test(jsonRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"email":     user.Email,
		"password":  "Str0ng!Pw",
		"totp_code": "000000",
	}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandler_Login_InfrastructureError(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetByEmail(gomock.Any(), "user@example.com").
		Return(nil, errors.New("connection refused"))

	resp, err := f.app.Test(jsonRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"email":    "user@example.com",
		"password": "Str0ng!Pw",
	}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "internal server error", body["error"])
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	f := newFixture(t)

	user := &domain.User{ID: "user-id", Email: "user@example.com"}
	claims := &service.JWTCustomClaims{UserID: user.ID, Email: user.Email}

	f.tok.EXPECT().VerifyRefreshToken("old-refresh-token").Return(claims, nil)
	f.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	f.tok.EXPECT().Generate(user.ID, user.Email).
		Return("new-access-token", "new-refresh-token", f.clk.now.Add(time.Hour), nil)
	f.tok.EXPECT().GetRefreshTokenExpiry().Return(7 * 24 * time.Hour)
	f.repo.EXPECT().RotateRefreshToken(gomock.Any(), "old-refresh-token", gomock.Any()).Return(nil)
	f.tok.EXPECT().GetAccessTokenExpiry().Return(time.Hour)

	resp, err := f.app.Test(jsonRequest(http.MethodPost, "/api/v1/refresh", map[string]string{
		"refresh_token": "old-refresh-token",
	}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "new-access-token", body["access_token"])
	assert.Equal(t, "new-refresh-token", body["refresh_token"])
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	f := newFixture(t)

	f.tok.EXPECT().VerifyRefreshToken("bogus").Return(nil, autherror.ErrInvalidToken)

	resp, err := f.app.Test(jsonRequest(http.MethodPost, "/api/v1/refresh", map[string]string{
		"refresh_token": "bogus",
	}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	f := newFixture(t)

	claims := &service.JWTCustomClaims{UserID: "user-id", Email: "user@example.com"}
	f.tok.EXPECT().VerifyAccessToken("valid-access-token").Return(claims, "", nil)
	f.repo.EXPECT().DeleteRefreshToken(gomock.Any(), "user-id", "refresh-token").Return(nil)

	req := jsonRequest(http.MethodDelete, "/api/v1/session", map[string]string{
		"refresh_token": "refresh-token",
	})
	req.Header.Set(fiber.HeaderAuthorization, "Bearer valid-access-token")

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthHandler_LogoutAll_Success(t *testing.T) {
	f := newFixture(t)

	claims := &service.JWTCustomClaims{UserID: "user-id", Email: "user@example.com"}
	f.tok.EXPECT().VerifyAccessToken("valid-access-token").Return(claims, "", nil)
	f.repo.EXPECT().DeleteAllRefreshTokensByUserID(gomock.Any(), "user-id").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer valid-access-token")

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthHandler_EnableMFA_Success(t *testing.T) {
	f := newFixture(t)

	claims := &service.JWTCustomClaims{UserID: "user-id", Email: "user@example.com"}
	user := &domain.User{ID: "user-id", Email: "user@example.com"}

	f.tok.EXPECT().VerifyAccessToken("valid-access-token").Return(claims, "", nil)
	f.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	f.mfa.EXPECT().GenerateSecret(user.Email).Return("NEWSECRET", "otpauth://totp/x", nil)
	f.repo.EXPECT().UpdateMFA(gomock.Any(), user.ID, false, gomock.Any()).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mfa/enable", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer valid-access-token")

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "NEWSECRET", body["secret"])
	assert.Equal(t, "otpauth://totp/x", body["provisioning_uri"])
}

func TestAuthHandler_EnableMFA_AlreadyEnabled(t *testing.T) {
	f := newFixture(t)

	claims := &service.JWTCustomClaims{UserID: "user-id", Email: "user@example.com"}
	secret := "OLDSECRET"

	f.tok.EXPECT().VerifyAccessToken("valid-access-token").Return(claims, "", nil)
	f.repo.EXPECT().GetByID(gomock.Any(), "user-id").
		Return(&domain.User{ID: "user-id", MfaEnabled: true, MfaSecret: &secret}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mfa/enable", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer valid-access-token")

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAuthHandler_ConfirmMFA_Success(t *testing.T) {
	f := newFixture(t)

	claims := &service.JWTCustomClaims{UserID: "user-id", Email: "user@example.com"}
	secret := "PENDINGSECRET"
	user := &domain.User{ID: "user-id", MfaSecret: &secret}

	f.tok.EXPECT().VerifyAccessToken("valid-access-token").Return(claims, "", nil)
	f.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	f.mfa.EXPECT().VerifyCode(secret, "123456").Return(true)
	f.repo.EXPECT().UpdateMFA(gomock.Any(), user.ID, true, &secret).Return(nil)

	req := jsonRequest(http.MethodPost, "/api/v1/mfa/confirm", map[string]string{"totp_code": "123456"})
	req.Header.Set(fiber.HeaderAuthorization, "Bearer valid-access-token")

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["mfa_enabled"])
}

func TestAuthHandler_DisableMFA_NotEnabled(t *testing.T) {
	f := newFixture(t)

	claims := &service.JWTCustomClaims{UserID: "user-id", Email: "user@example.com"}

	f.tok.EXPECT().VerifyAccessToken("valid-access-token").Return(claims, "", nil)
	f.repo.EXPECT().GetByID(gomock.Any(), "user-id").Return(&domain.User{ID: "user-id"}, nil)

	req := jsonRequest(http.MethodPost, "/api/v1/mfa/disable", map[string]string{"totp_code": "123456"})
	req.Header.Set(fiber.HeaderAuthorization, "Bearer valid-access-token")

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
