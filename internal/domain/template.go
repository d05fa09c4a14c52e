package domain

import "time"

// DeckTemplate is an uploaded presentation template a job may reference.
type DeckTemplate struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	StorageKey  string
	Bytes       int64
	CreatedAt   time.Time
}
