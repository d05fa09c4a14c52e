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

// TemplateRepositoryPG implements domain.TemplateRepository.
type TemplateRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository creates a new template repository backed by PostgreSQL.
func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepositoryPG {
	return &TemplateRepositoryPG{pool: pool}
}

// Create inserts an uploaded deck template.
func (r *TemplateRepositoryPG) Create(ctx context.Context, tpl *domain.DeckTemplate) error {
	_, err := r.pool.Exec(ctx, sqlinline.QTemplateInsert,
		tpl.ID,
		tpl.OwnerID,
		tpl.Name,
		tpl.Description,
		tpl.StorageKey,
		tpl.Bytes,
	)
	return err
}

// GetForOwner fetches a template scoped to its owner.
func (r *TemplateRepositoryPG) GetForOwner(ctx context.Context, id, ownerID string) (*domain.DeckTemplate, error) {
	var tpl domain.DeckTemplate
	err := r.pool.QueryRow(ctx, sqlinline.QTemplateGetForOwner, id, ownerID).Scan(
		&tpl.ID,
		&tpl.OwnerID,
		&tpl.Name,
		&tpl.Description,
		&tpl.StorageKey,
		&tpl.Bytes,
		&tpl.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// ListByOwner returns the owner's templates, newest first.
func (r *TemplateRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.DeckTemplate, error) {
	rows, err := r.pool.Query(ctx, sqlinline.QTemplateListByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.DeckTemplate
	for rows.Next() {
		var tpl domain.DeckTemplate
		if err := rows.Scan(&tpl.ID, &tpl.OwnerID, &tpl.Name, &tpl.Description, &tpl.StorageKey, &tpl.Bytes, &tpl.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// Delete removes a template owned by the caller.
func (r *TemplateRepositoryPG) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.pool.Exec(ctx, sqlinline.QTemplateDelete, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: template %s", domain.ErrNotFound, id)
	}
	return nil
}
