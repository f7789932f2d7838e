package service

import (
	"context"
	"fmt"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akiliz/swedish-eco-property-hub-sub000/config"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/domain"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/dto"
	autherror "github.com/akiliz/swedish-eco-property-hub-sub000/internal/errors"
	authconstant "github.com/akiliz/swedish-eco-property-hub-sub000/pkg/constant"
	"github.com/akiliz/swedish-eco-property-hub-sub000/pkg/clock"
)

// dummyHash keeps the bcrypt comparison cost identical whether or not the
// email exists, so response timing does not leak account presence.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type UserService struct {
	repo                   domain.UserRepository
	tokenService           TokenGenerator
	mfa                    MfaVerifier
	guard                  *AccountGuard
	maxActiveTokensPerUser int
	clock                  clock.Clock
	logger                 *zap.Logger
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, mfa MfaVerifier,
	guard *AccountGuard, cfg *config.Config, clk clock.Clock, logger *zap.Logger) *UserService {
	return &UserService{
		repo:                   repo,
		tokenService:           tokenService,
		mfa:                    mfa,
		guard:                  guard,
		maxActiveTokensPerUser: cfg.MaxActiveRefreshTokens,
		clock:                  clk,
		logger:                 logger,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existingUser, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	if input.Password != input.ConfirmPassword || !passwordMeetsPolicy(input.Password) {
		return nil, autherror.ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if user != nil {
		if err := s.guard.CheckLock(user); err != nil {
			return nil, err
		}
	}

	// Unknown email and wrong password take the same path and cost.
	hash := dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)) != nil || user == nil {
		if user != nil {
			if err := s.guard.RecordFailure(ctx, user); err != nil {
				return nil, err
			}
		}
		return nil, autherror.ErrInvalidCredentials
	}

	if user.MfaEnabled {
		// Distinct from invalid credentials: the client must prompt for a
		// code without re-asking the password.
		if input.TotpCode == "" {
			return nil, autherror.ErrMfaRequired
		}
		if user.MfaSecret == nil || !s.mfa.VerifyCode(*user.MfaSecret, input.TotpCode) {
			if err := s.guard.RecordFailure(ctx, user); err != nil {
				return nil, err
			}
			return nil, autherror.ErrInvalidMfaCode
		}
	}

	if err := s.guard.RecordSuccess(ctx, user); err != nil {
		return nil, err
	}

	accessToken, refreshToken, _, err := s.tokenService.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	refreshTokenObj := &domain.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     refreshToken,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		ExpiresAt: now.Add(s.tokenService.GetRefreshTokenExpiry()),
		CreatedAt: now,
	}

	if err := s.repo.StoreRefreshToken(ctx, refreshTokenObj); err != nil {
		return nil, err
	}

	s.evictExcessTokens(ctx, user.ID)

	lastLogin := now

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    authconstant.DefaultTokenType,
		ExpiresIn:    int(s.tokenService.GetAccessTokenExpiry().Seconds()),
		User: &dto.UserOutput{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			MfaEnabled: user.MfaEnabled,
			LastLogin:  &lastLogin,
			CreatedAt:  user.CreatedAt,
		},
	}, nil
}

func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	// Step 1: Verify signature and expiry of the presented token
	claims, err := s.tokenService.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, autherror.ErrInvalidToken
	}

	// Step 2: Re-fetch the owning account
	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrInvalidToken
	}

	// Step 3: Generate the replacement pair
	accessToken, newRefreshToken, _, err := s.tokenService.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new tokens: %w", err)
	}

	now := s.clock.Now()

	newToken := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     newRefreshToken,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		ExpiresAt: now.Add(s.tokenService.GetRefreshTokenExpiry()),
		CreatedAt: now,
	}

	// Step 4: Rotate on use. The swap is transactional: if the presented
	// token is no longer stored (already redeemed or revoked), the whole
	// operation fails and no replacement is persisted.
	if err := s.repo.RotateRefreshToken(ctx, input.RefreshToken, newToken); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    authconstant.DefaultTokenType,
		ExpiresIn:    int(s.tokenService.GetAccessTokenExpiry().Seconds()),
	}, nil
}

func (s *UserService) Logout(ctx context.Context, userID, refreshToken string) error {
	return s.repo.DeleteRefreshToken(ctx, userID, refreshToken)
}

func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	return s.repo.DeleteAllRefreshTokensByUserID(ctx, userID)
}

// EnableMFA provisions a secret without turning MFA on. The caller must
// confirm with a valid code before login starts demanding one.
func (s *UserService) EnableMFA(ctx context.Context, userID string) (*dto.MfaSetupResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUnauthenticated
	}
	if user.MfaEnabled {
		return nil, autherror.ErrMfaAlreadyEnabled
	}

	secret, uri, err := s.mfa.GenerateSecret(user.Email)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMFA(ctx, user.ID, false, &secret); err != nil {
		return nil, err
	}

	return &dto.MfaSetupResponse{Secret: secret, ProvisioningURI: uri}, nil
}

func (s *UserService) ConfirmMFA(ctx context.Context, userID, code string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUnauthenticated
	}
	if user.MfaSecret == nil {
		return autherror.ErrMfaNotEnabled
	}

	if !s.mfa.VerifyCode(*user.MfaSecret, code) {
		return autherror.ErrInvalidMfaCode
	}

	return s.repo.UpdateMFA(ctx, user.ID, true, user.MfaSecret)
}

// DisableMFA demands a currently-valid code even though the caller already
// holds a bearer token; a stolen access token alone cannot strip MFA.
func (s *UserService) DisableMFA(ctx context.Context, userID, code string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUnauthenticated
	}
	if !user.MfaEnabled || user.MfaSecret == nil {
		return autherror.ErrMfaNotEnabled
	}

	if !s.mfa.VerifyCode(*user.MfaSecret, code) {
		return autherror.ErrInvalidMfaCode
	}

	return s.repo.UpdateMFA(ctx, user.ID, false, nil)
}

// evictExcessTokens enforces the concurrent-session cap, oldest first.
// Eviction failures are logged, not surfaced; the login already succeeded.
func (s *UserService) evictExcessTokens(ctx context.Context, userID string) {
	count, err := s.repo.CountRefreshTokensByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to count refresh tokens", zap.String("user_id", userID), zap.Error(err))
		return
	}

	for count > s.maxActiveTokensPerUser {
		if err := s.repo.DeleteOldestRefreshTokenByUserID(ctx, userID); err != nil {
			s.logger.Warn("failed to delete oldest refresh token", zap.String("user_id", userID), zap.Error(err))
			return
		}
		count--
	}
}

func passwordMeetsPolicy(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSymbol
}
