// Package repo contains the PostgreSQL-backed repositories. All job record
// writes go through a compare-and-set keyed on the previously read status,
// and workers claim runnable jobs with FOR UPDATE SKIP LOCKED plus a lease,
// so concurrent API calls, workers and sweepers can never interleave a
// transition. The SQL statements themselves live in internal/sqlinline.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"slidegen/internal/domain"
	"slidegen/internal/sqlinline"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// Create inserts a new job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	request, err := json.Marshal(job.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	_, err = r.pool.Exec(ctx, sqlinline.QJobInsert,
		job.ID,
		job.OwnerID,
		request,
		job.Status,
		job.Progress,
		job.CurrentStep,
		job.Locale,
	)
	return err
}

// Get fetches a job by its identifier.
func (r *JobRepositoryPG) Get(ctx context.Context, id string) (*domain.Job, error) {
	return scanJob(r.pool.QueryRow(ctx, sqlinline.QJobGet, id))
}

// GetForOwner fetches a job scoped to its owner.
func (r *JobRepositoryPG) GetForOwner(ctx context.Context, id, ownerID string) (*domain.Job, error) {
	return scanJob(r.pool.QueryRow(ctx, sqlinline.QJobGetForOwner, id, ownerID))
}

// ListByOwner returns the owner's jobs, newest first.
func (r *JobRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, sqlinline.QJobListByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Update persists the job iff the stored status still equals expect. A zero
// row count means another writer got there first.
func (r *JobRepositoryPG) Update(ctx context.Context, job *domain.Job, expect domain.Status) error {
	agenda, err := marshalAgenda(job.Agenda)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, sqlinline.QJobUpdateCAS,
		job.ID,
		expect,
		job.Status,
		agenda,
		job.Progress,
		job.CurrentStep,
		job.ResultKey,
		job.ErrorMessage,
		job.LeasedUntil,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s is no longer in status %s", domain.ErrStateConflict, job.ID, expect)
	}
	return nil
}

// ClaimRunnable leases the oldest runnable job: a pending submission or an
// approved job waiting at the continuation boundary, in either case with a
// free or expired lease.
func (r *JobRepositoryPG) ClaimRunnable(ctx context.Context, leaseFor time.Duration) (*domain.Job, error) {
	return scanJob(r.pool.QueryRow(ctx, sqlinline.QJobClaimRunnable, leaseFor.Seconds()))
}

// ReleaseLease clears the worker lease without touching job state.
func (r *JobRepositoryPG) ReleaseLease(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, sqlinline.QJobReleaseLease, id)
	return err
}

// CancelStaleApprovals auto-rejects jobs that sat in agenda_approval longer
// than the window.
func (r *JobRepositoryPG) CancelStaleApprovals(ctx context.Context, window time.Duration) (int, error) {
	tag, err := r.pool.Exec(ctx, sqlinline.QJobCancelStaleApprovals, window.Seconds())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// FailAbandoned fails jobs whose worker disappeared mid-stage. Jobs at the
// continuation boundary are excluded: those are safely re-claimable.
func (r *JobRepositoryPG) FailAbandoned(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, sqlinline.QJobFailAbandoned)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		job     domain.Job
		request []byte
		agenda  []byte
	)
	err := row.Scan(
		&job.ID,
		&job.OwnerID,
		&request,
		&job.Status,
		&agenda,
		&job.Progress,
		&job.CurrentStep,
		&job.Locale,
		&job.ResultKey,
		&job.ErrorMessage,
		&job.LeasedUntil,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(request, &job.Request); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if len(agenda) > 0 {
		var a domain.Agenda
		if err := json.Unmarshal(agenda, &a); err != nil {
			return nil, fmt.Errorf("decode agenda: %w", err)
		}
		job.Agenda = &a
	}
	return &job, nil
}

func marshalAgenda(a *domain.Agenda) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode agenda: %w", err)
	}
	return data, nil
}
