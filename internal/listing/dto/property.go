package dto

import "time"

type PropertyInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	City        string  `json:"city"`
	PriceCents  int64   `json:"price_cents"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   int     `json:"bathrooms"`
	AreaSqm     float64 `json:"area_sqm"`
	EnergyClass string  `json:"energy_class"`
}

type PropertyOutput struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	City        string    `json:"city"`
	PriceCents  int64     `json:"price_cents"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	AreaSqm     float64   `json:"area_sqm"`
	EnergyClass string    `json:"energy_class"`
	AgentID     string    `json:"agent_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
