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

// PromptTemplateRepositoryPG implements domain.PromptTemplateRepository.
type PromptTemplateRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPromptTemplateRepository creates a prompt template repository backed by PostgreSQL.
func NewPromptTemplateRepository(pool *pgxpool.Pool) *PromptTemplateRepositoryPG {
	return &PromptTemplateRepositoryPG{pool: pool}
}

// Create inserts a reusable prompt.
func (r *PromptTemplateRepositoryPG) Create(ctx context.Context, tpl *domain.PromptTemplate) error {
	_, err := r.pool.Exec(ctx, sqlinline.QPromptTemplateInsert,
		tpl.ID,
		tpl.OwnerID,
		tpl.Name,
		tpl.Prompt,
		tpl.Description,
		tpl.IsDefault,
	)
	return err
}

// GetForOwner fetches a prompt template scoped to its owner.
func (r *PromptTemplateRepositoryPG) GetForOwner(ctx context.Context, id, ownerID string) (*domain.PromptTemplate, error) {
	var tpl domain.PromptTemplate
	err := r.pool.QueryRow(ctx, sqlinline.QPromptTemplateGetForOwner, id, ownerID).Scan(
		&tpl.ID,
		&tpl.OwnerID,
		&tpl.Name,
		&tpl.Prompt,
		&tpl.Description,
		&tpl.IsDefault,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// ListByOwner returns the owner's prompt templates, newest first.
func (r *PromptTemplateRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.PromptTemplate, error) {
	rows, err := r.pool.Query(ctx, sqlinline.QPromptTemplateListByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.PromptTemplate
	for rows.Next() {
		var tpl domain.PromptTemplate
		if err := rows.Scan(&tpl.ID, &tpl.OwnerID, &tpl.Name, &tpl.Prompt, &tpl.Description,
			&tpl.IsDefault, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// Update rewrites a prompt template owned by the caller.
func (r *PromptTemplateRepositoryPG) Update(ctx context.Context, tpl *domain.PromptTemplate) error {
	tag, err := r.pool.Exec(ctx, sqlinline.QPromptTemplateUpdate,
		tpl.ID,
		tpl.OwnerID,
		tpl.Name,
		tpl.Prompt,
		tpl.Description,
		tpl.IsDefault,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: prompt template %s", domain.ErrNotFound, tpl.ID)
	}
	return nil
}

// Delete removes a prompt template owned by the caller.
func (r *PromptTemplateRepositoryPG) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.pool.Exec(ctx, sqlinline.QPromptTemplateDelete, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: prompt template %s", domain.ErrNotFound, id)
	}
	return nil
}
