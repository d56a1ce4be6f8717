package repositories

import (
	"context"

	"github.com/dcastano/turnero/internal/domain/entities"
)

// StationRepository defines read-only access to stations. Station
// administration lives outside this core.
type StationRepository interface {
	// GetByID retrieves a station by ID
	GetByID(ctx context.Context, id string) (*entities.Station, error)

	// ListActive retrieves all active stations in stable creation order
	ListActive(ctx context.Context) ([]*entities.Station, error)
}
