package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"slidegen/internal/domain"
	"slidegen/internal/sqlinline"
)

// ModelConfigRepositoryPG implements domain.ModelConfigRepository.
type ModelConfigRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewModelConfigRepository creates a model config repository backed by PostgreSQL.
func NewModelConfigRepository(pool *pgxpool.Pool) *ModelConfigRepositoryPG {
	return &ModelConfigRepositoryPG{pool: pool}
}

// Create inserts a saved model configuration.
func (r *ModelConfigRepositoryPG) Create(ctx context.Context, cfg *domain.ModelConfig) error {
	_, err := r.pool.Exec(ctx, sqlinline.QModelConfigInsert,
		cfg.ID,
		cfg.OwnerID,
		cfg.Name,
		cfg.Provider,
		cfg.Model,
		cfg.Temperature,
		cfg.MaxTokens,
		cfg.IsDefault,
	)
	return err
}

// GetForOwner fetches a config scoped to its owner.
func (r *ModelConfigRepositoryPG) GetForOwner(ctx context.Context, id, ownerID string) (*domain.ModelConfig, error) {
	var cfg domain.ModelConfig
	err := r.pool.QueryRow(ctx, sqlinline.QModelConfigGetForOwner, id, ownerID).Scan(
		&cfg.ID,
		&cfg.OwnerID,
		&cfg.Name,
		&cfg.Provider,
		&cfg.Model,
		&cfg.Temperature,
		&cfg.MaxTokens,
		&cfg.IsDefault,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// ListByOwner returns the owner's configs, newest first.
func (r *ModelConfigRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.ModelConfig, error) {
	rows, err := r.pool.Query(ctx, sqlinline.QModelConfigListByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []domain.ModelConfig
	for rows.Next() {
		var cfg domain.ModelConfig
		if err := rows.Scan(&cfg.ID, &cfg.OwnerID, &cfg.Name, &cfg.Provider, &cfg.Model,
			&cfg.Temperature, &cfg.MaxTokens, &cfg.IsDefault, &cfg.CreatedAt, &cfg.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// Update rewrites a config owned by the caller.
func (r *ModelConfigRepositoryPG) Update(ctx context.Context, cfg *domain.ModelConfig) error {
	tag, err := r.pool.Exec(ctx, sqlinline.QModelConfigUpdate,
		cfg.ID,
		cfg.OwnerID,
		cfg.Name,
		cfg.Provider,
		cfg.Model,
		cfg.Temperature,
		cfg.MaxTokens,
		cfg.IsDefault,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: model config %s", domain.ErrNotFound, cfg.ID)
	}
	return nil
}

// Delete removes a config owned by the caller.
func (r *ModelConfigRepositoryPG) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.pool.Exec(ctx, sqlinline.QModelConfigDelete, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: model config %s", domain.ErrNotFound, id)
	}
	return nil
}
