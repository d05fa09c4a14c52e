package domain

import "time"

// HistoryEntry records one finished generation for the owner's history view.
type HistoryEntry struct {
	ID         string
	OwnerID    string
	JobID      string
	Title      string
	SlideCount int
	ResultKey  string
	CreatedAt  time.Time
}
