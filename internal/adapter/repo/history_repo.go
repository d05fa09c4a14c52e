package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"slidegen/internal/domain"
	"slidegen/internal/sqlinline"
)

// HistoryRepositoryPG implements domain.HistoryRepository.
type HistoryRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new history repository backed by PostgreSQL.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepositoryPG {
	return &HistoryRepositoryPG{pool: pool}
}

// Create appends a completed-generation history row.
func (r *HistoryRepositoryPG) Create(ctx context.Context, entry *domain.HistoryEntry) error {
	_, err := r.pool.Exec(ctx, sqlinline.QHistoryInsert,
		entry.ID,
		entry.OwnerID,
		entry.JobID,
		entry.Title,
		entry.SlideCount,
		entry.ResultKey,
	)
	return err
}

// ListByOwner returns the owner's history, newest first.
func (r *HistoryRepositoryPG) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, sqlinline.QHistoryListByOwner, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.JobID, &e.Title, &e.SlideCount, &e.ResultKey, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
