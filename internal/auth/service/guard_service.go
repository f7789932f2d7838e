package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/akiliz/swedish-eco-property-hub-sub000/config"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/domain"
	autherror "github.com/akiliz/swedish-eco-property-hub-sub000/internal/errors"
	"github.com/akiliz/swedish-eco-property-hub-sub000/pkg/clock"
)

// AccountGuard decides whether a login attempt may proceed and records its
// outcome. After maxAttempts consecutive failures the account is locked for
// lockDuration; the counter resets only on a fully successful login.
type AccountGuard struct {
	repo         domain.UserRepository
	maxAttempts  int
	lockDuration time.Duration
	clock        clock.Clock
	logger       *zap.Logger
}

func NewAccountGuard(repo domain.UserRepository, cfg *config.Config, clk clock.Clock, logger *zap.Logger) *AccountGuard {
	return &AccountGuard{
		repo:         repo,
		maxAttempts:  cfg.LoginMaxAttempts,
		lockDuration: time.Duration(cfg.LockDurationSec) * time.Second,
		clock:        clk,
		logger:       logger,
	}
}

func (g *AccountGuard) CheckLock(user *domain.User) error {
	if user.LockUntil == nil {
		return nil
	}

	remaining := user.LockUntil.Sub(g.clock.Now())
	if remaining <= 0 {
		return nil
	}

	return &autherror.AccountLockedError{
		RetryAfterSeconds: int(math.Ceil(remaining.Seconds())),
	}
}

func (g *AccountGuard) RecordFailure(ctx context.Context, user *domain.User) error {
	count, err := g.repo.IncrementFailedAttempts(ctx, user.ID)
	if err != nil {
		return err
	}

	if count >= g.maxAttempts {
		until := g.clock.Now().Add(g.lockDuration)
		if err := g.repo.SetLock(ctx, user.ID, until); err != nil {
			return err
		}
		g.logger.Warn("account locked after repeated failed logins",
			zap.String("user_id", user.ID), zap.Int("attempts", count))
	}

	return nil
}

func (g *AccountGuard) RecordSuccess(ctx context.Context, user *domain.User) error {
	return g.repo.ClearLockAndTouchLogin(ctx, user.ID, g.clock.Now())
}
