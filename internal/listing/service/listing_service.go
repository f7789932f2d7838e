package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/cache"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/listing/domain"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/listing/dto"
	"github.com/akiliz/swedish-eco-property-hub-sub000/pkg/clock"
)

const listingCachePrefix = "listings:"

// ListingService serves the marketplace's property reads through a TTL
// cache and invalidates that cache on every write.
type ListingService struct {
	repo   domain.ListingRepository
	cache  cache.Store
	ttl    time.Duration
	clock  clock.Clock
	logger *zap.Logger
}

func NewListingService(repo domain.ListingRepository, store cache.Store, ttlSeconds int,
	clk clock.Clock, logger *zap.Logger) *ListingService {
	return &ListingService{
		repo:   repo,
		cache:  store,
		ttl:    time.Duration(ttlSeconds) * time.Second,
		clock:  clk,
		logger: logger,
	}
}

func (s *ListingService) List(ctx context.Context, f domain.Filter) ([]domain.Property, error) {
	key := cacheKey(f)

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached []domain.Property
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("listing cache read failed", zap.Error(err))
	}

	properties, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(properties); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			s.logger.Warn("listing cache write failed", zap.Error(err))
		}
	}

	return properties, nil
}

func (s *ListingService) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ListingService) Create(ctx context.Context, input dto.PropertyInput, agentID string) (*domain.Property, error) {
	now := s.clock.Now()

	p := &domain.Property{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		City:        input.City,
		PriceCents:  input.PriceCents,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		AreaSqm:     input.AreaSqm,
		EnergyClass: input.EnergyClass,
		AgentID:     agentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return p, nil
}

func (s *ListingService) Update(ctx context.Context, id string, input dto.PropertyInput) (*domain.Property, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	existing.Title = input.Title
	existing.Description = input.Description
	existing.City = input.City
	existing.PriceCents = input.PriceCents
	existing.Bedrooms = input.Bedrooms
	existing.Bathrooms = input.Bathrooms
	existing.AreaSqm = input.AreaSqm
	existing.EnergyClass = input.EnergyClass
	existing.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return existing, nil
}

func (s *ListingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

func (s *ListingService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, listingCachePrefix); err != nil {
		s.logger.Warn("listing cache invalidation failed", zap.Error(err))
	}
}

// cacheKey is the request signature: every filter dimension participates,
// so distinct queries never share an entry.
func cacheKey(f domain.Filter) string {
	return fmt.Sprintf("%s%s:%d:%d:%d", listingCachePrefix, f.City,
		f.MinPriceCents, f.MaxPriceCents, f.Bedrooms)
}
