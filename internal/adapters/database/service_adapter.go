package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/dcastano/turnero/internal/domain/entities"
	"github.com/dcastano/turnero/internal/domain/repositories"
	"github.com/dcastano/turnero/internal/infrastructure/clients/postgres"
	apperrors "github.com/dcastano/turnero/pkg/errors"
)

// ServiceAdapter implements the ServiceRepository interface
type ServiceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewServiceAdapter creates a new service adapter
func NewServiceAdapter(client *postgres.Client) repositories.ServiceRepository {
	return &ServiceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a service by ID
func (a *ServiceAdapter) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	query, args, err := a.db.Select(
		"id", "name", "duration_minutes", "price_cents", "loyalty_points",
		"is_active", "created_at", "updated_at",
	).From("services").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	service := &entities.Service{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Name,
		&service.DurationMinutes,
		&service.PriceCents,
		&service.LoyaltyPoints,
		&service.IsActive,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service", err)
	}
	return service, nil
}
