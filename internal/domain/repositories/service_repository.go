package repositories

import (
	"context"

	"github.com/dcastano/turnero/internal/domain/entities"
)

// ServiceRepository defines read-only access to services
type ServiceRepository interface {
	// GetByID retrieves a service by ID
	GetByID(ctx context.Context, id string) (*entities.Service, error)
}
