package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/listing/domain"
	huberror "github.com/akiliz/swedish-eco-property-hub-sub000/internal/errors"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const propertyColumns = `id, title, description, city, price_cents, bedrooms,
		bathrooms, area_sqm, energy_class, agent_id, created_at, updated_at`

func (r *PostgresRepository) List(ctx context.Context, f domain.Filter) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE 1=1`
	var args []any

	if f.City != "" {
		args = append(args, f.City)
		query += fmt.Sprintf(" AND city = $%d", len(args))
	}
	if f.MinPriceCents > 0 {
		args = append(args, f.MinPriceCents)
		query += fmt.Sprintf(" AND price_cents >= $%d", len(args))
	}
	if f.MaxPriceCents > 0 {
		args = append(args, f.MaxPriceCents)
		query += fmt.Sprintf(" AND price_cents <= $%d", len(args))
	}
	if f.Bedrooms > 0 {
		args = append(args, f.Bedrooms)
		query += fmt.Sprintf(" AND bedrooms >= $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.City, &p.PriceCents,
			&p.Bedrooms, &p.Bathrooms, &p.AreaSqm, &p.EnergyClass, &p.AgentID,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}

	return properties, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 LIMIT 1;`

	var p domain.Property
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Title, &p.Description, &p.City,
		&p.PriceCents, &p.Bedrooms, &p.Bathrooms, &p.AreaSqm, &p.EnergyClass, &p.AgentID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	return &p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *domain.Property) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO properties (id, title, description, city, price_cents, bedrooms,
			bathrooms, area_sqm, energy_class, agent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, p.ID, p.Title, p.Description, p.City, p.PriceCents, p.Bedrooms,
		p.Bathrooms, p.AreaSqm, p.EnergyClass, p.AgentID, p.CreatedAt, p.UpdatedAt)

	return err
}

func (r *PostgresRepository) Update(ctx context.Context, p *domain.Property) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE properties
		SET title = $2, description = $3, city = $4, price_cents = $5, bedrooms = $6,
			bathrooms = $7, area_sqm = $8, energy_class = $9, updated_at = $10
		WHERE id = $1
	`, p.ID, p.Title, p.Description, p.City, p.PriceCents, p.Bedrooms,
		p.Bathrooms, p.AreaSqm, p.EnergyClass, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return huberror.ErrPropertyNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return huberror.ErrPropertyNotFound
	}

	return nil
}
