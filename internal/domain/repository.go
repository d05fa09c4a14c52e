package domain

import (
	"context"
	"time"
)

// JobRepository defines persistence for job records. Update is a
// compare-and-set keyed on the status the caller read: when the stored
// status no longer matches, the write is dropped and ErrStateConflict is
// returned, so concurrent writers cannot interleave transitions.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	GetForOwner(ctx context.Context, id, ownerID string) (*Job, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Job, error)

	// Update persists the job iff its stored status equals expect.
	Update(ctx context.Context, job *Job, expect Status) error

	// ClaimRunnable leases the oldest pending or approved job whose lease
	// is free or expired, returning ErrNotFound when none is runnable.
	ClaimRunnable(ctx context.Context, leaseFor time.Duration) (*Job, error)

	// ReleaseLease clears the lease so another worker may pick the job up.
	ReleaseLease(ctx context.Context, id string) error

	// CancelStaleApprovals cancels jobs waiting for approval longer than
	// the window and returns how many were swept.
	CancelStaleApprovals(ctx context.Context, window time.Duration) (int, error)

	// FailAbandoned fails jobs whose worker lease expired while a stage was
	// in flight, so a crashed worker cannot strand a job forever.
	FailAbandoned(ctx context.Context) (int, error)
}

// HistoryRepository persists completed-generation history rows.
type HistoryRepository interface {
	Create(ctx context.Context, entry *HistoryEntry) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]HistoryEntry, error)
}

// SettingsRepository stores per-user defaults.
type SettingsRepository interface {
	Get(ctx context.Context, ownerID string) (*UserSettings, error)
	Upsert(ctx context.Context, settings *UserSettings) error
}

// TemplateRepository stores uploaded deck templates.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *DeckTemplate) error
	GetForOwner(ctx context.Context, id, ownerID string) (*DeckTemplate, error)
	ListByOwner(ctx context.Context, ownerID string) ([]DeckTemplate, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// ModelConfigRepository stores saved generation-model configurations.
type ModelConfigRepository interface {
	Create(ctx context.Context, cfg *ModelConfig) error
	GetForOwner(ctx context.Context, id, ownerID string) (*ModelConfig, error)
	ListByOwner(ctx context.Context, ownerID string) ([]ModelConfig, error)
	Update(ctx context.Context, cfg *ModelConfig) error
	Delete(ctx context.Context, id, ownerID string) error
}

// PromptTemplateRepository stores reusable submission prompts.
type PromptTemplateRepository interface {
	Create(ctx context.Context, tpl *PromptTemplate) error
	GetForOwner(ctx context.Context, id, ownerID string) (*PromptTemplate, error)
	ListByOwner(ctx context.Context, ownerID string) ([]PromptTemplate, error)
	Update(ctx context.Context, tpl *PromptTemplate) error
	Delete(ctx context.Context, id, ownerID string) error
}
