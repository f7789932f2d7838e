package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/listing/domain"
	huberror "github.com/akiliz/swedish-eco-property-hub-sub000/internal/errors"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewPostgresRepository(mock)
}

func propertyRows(mock pgxmock.PgxPoolIface, p *domain.Property) *pgxmock.Rows {
	return mock.NewRows([]string{
		"id", "title", "description", "city", "price_cents", "bedrooms",
		"bathrooms", "area_sqm", "energy_class", "agent_id", "created_at", "updated_at",
	}).AddRow(p.ID, p.Title, p.Description, p.City, p.PriceCents, p.Bedrooms,
		p.Bathrooms, p.AreaSqm, p.EnergyClass, p.AgentID, p.CreatedAt, p.UpdatedAt)
}

func sampleProperty() *domain.Property {
	now := time.Now()
	return &domain.Property{
		ID:          "p1",
		Title:       "Passive house in Hammarby",
		Description: "Solar roof, triple glazing",
		City:        "Stockholm",
		PriceCents:  450000000,
		Bedrooms:    3,
		Bathrooms:   2,
		AreaSqm:     92.5,
		EnergyClass: "A",
		AgentID:     "agent-id",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestPostgresRepository_List_NoFilter(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM properties WHERE 1=1 ORDER BY created_at DESC").
		WillReturnRows(propertyRows(mock, sampleProperty()))

	properties, err := repo.List(context.Background(), domain.Filter{})

	require.NoError(t, err)
	require.Len(t, properties, 1)
	assert.Equal(t, "p1", properties[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_List_AllFilters(t *testing.T) {
	mock, repo := newMockRepo(t)

	filter := domain.Filter{
		City:          "Stockholm",
		MinPriceCents: 100000000,
		MaxPriceCents: 500000000,
		Bedrooms:      2,
	}

	// Placeholders are numbered in the order the filters are appended.
	mock.ExpectQuery(`SELECT (.+) FROM properties WHERE 1=1 AND city = \$1 AND price_cents >= \$2 AND price_cents <= \$3 AND bedrooms >= \$4`).
		WithArgs(filter.City, filter.MinPriceCents, filter.MaxPriceCents, filter.Bedrooms).
		WillReturnRows(propertyRows(mock, sampleProperty()))

	properties, err := repo.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, properties, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM properties WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	p, err := repo.GetByID(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Create(t *testing.T) {
	mock, repo := newMockRepo(t)

	p := sampleProperty()
	mock.ExpectExec("INSERT INTO properties").
		WithArgs(p.ID, p.Title, p.Description, p.City, p.PriceCents, p.Bedrooms,
			p.Bathrooms, p.AreaSqm, p.EnergyClass, p.AgentID, p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Update_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	p := sampleProperty()
	mock.ExpectExec("UPDATE properties").
		WithArgs(p.ID, p.Title, p.Description, p.City, p.PriceCents, p.Bedrooms,
			p.Bathrooms, p.AreaSqm, p.EnergyClass, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.Equal(t, huberror.ErrPropertyNotFound, repo.Update(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Delete(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("DELETE FROM properties").
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Delete_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("DELETE FROM properties").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.Equal(t, huberror.ErrPropertyNotFound, repo.Delete(context.Background(), "missing"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
