package domain

import "time"

// UserSettings holds per-user defaults consulted at submission time. The
// auto-approval default is copied into the request when the submission does
// not set the flag itself; a later settings change never affects jobs that
// are already in flight.
type UserSettings struct {
	OwnerID              string
	AutoApprove          bool
	DefaultTemplateID    string
	DefaultModelConfigID string
	NotifyOnCompletion   bool
	UpdatedAt            time.Time
}

// DefaultSettings returns the settings applied to users who never saved any.
func DefaultSettings(ownerID string) *UserSettings {
	return &UserSettings{
		OwnerID:            ownerID,
		AutoApprove:        false,
		NotifyOnCompletion: true,
	}
}
