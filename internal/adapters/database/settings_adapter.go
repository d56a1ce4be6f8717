package database

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/dcastano/turnero/internal/domain/repositories"
	"github.com/dcastano/turnero/internal/infrastructure/clients/postgres"
	apperrors "github.com/dcastano/turnero/pkg/errors"
)

// SettingsAdapter implements the SettingsRepository interface against a
// key/value settings table
type SettingsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSettingsAdapter creates a new settings adapter
func NewSettingsAdapter(client *postgres.Client) repositories.SettingsRepository {
	return &SettingsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetInt returns the integer value stored under key, or defaultValue when
// the key is absent or does not parse as an integer
func (a *SettingsAdapter) GetInt(ctx context.Context, key string, defaultValue int) (int, error) {
	query, args, err := a.db.Select("value").
		From("settings").
		Where(goqu.Ex{"key": key}).
		ToSQL()
	if err != nil {
		return defaultValue, apperrors.NewInternalError("failed to build settings query", err)
	}

	var value string
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return defaultValue, nil
	}
	if err != nil {
		return defaultValue, apperrors.NewInternalError("failed to read setting", err)
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, nil
	}
	return intVal, nil
}
