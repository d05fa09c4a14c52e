package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"slidegen/internal/domain"
	"slidegen/internal/sqlinline"
)

// SettingsRepositoryPG implements domain.SettingsRepository.
type SettingsRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository backed by PostgreSQL.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepositoryPG {
	return &SettingsRepositoryPG{pool: pool}
}

// Get loads the owner's settings; users who never saved any get defaults.
func (r *SettingsRepositoryPG) Get(ctx context.Context, ownerID string) (*domain.UserSettings, error) {
	var s domain.UserSettings
	err := r.pool.QueryRow(ctx, sqlinline.QSettingsGet, ownerID).Scan(
		&s.OwnerID,
		&s.AutoApprove,
		&s.DefaultTemplateID,
		&s.DefaultModelConfigID,
		&s.NotifyOnCompletion,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultSettings(ownerID), nil
		}
		return nil, err
	}
	return &s, nil
}

// Upsert saves the owner's settings.
func (r *SettingsRepositoryPG) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	_, err := r.pool.Exec(ctx, sqlinline.QSettingsUpsert,
		settings.OwnerID,
		settings.AutoApprove,
		settings.DefaultTemplateID,
		settings.DefaultModelConfigID,
		settings.NotifyOnCompletion,
	)
	return err
}
