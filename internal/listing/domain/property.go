package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_listing_repository.go -package=mocks github.com/akiliz/swedish-eco-property-hub-sub000/internal/listing/domain ListingRepository

type Property struct {
	ID          string
	Title       string
	Description string
	City        string
	PriceCents  int64
	Bedrooms    int
	Bathrooms   int
	AreaSqm     float64
	EnergyClass string
	AgentID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Filter struct {
	City          string
	MinPriceCents int64
	MaxPriceCents int64
	Bedrooms      int
}

type ListingRepository interface {
	List(ctx context.Context, f Filter) ([]Property, error)
	GetByID(ctx context.Context, id string) (*Property, error)
	Create(ctx context.Context, p *Property) error
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id string) error
}
