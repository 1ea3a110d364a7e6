package model

import "time"

// UpdateKind names the pipeline operation an Update carries, per spec.md
// §4.1's update-kind enumeration.
type UpdateKind string

const (
	UpdateKindAddition        UpdateKind = "addition"
	UpdateKindPartialAddition UpdateKind = "partial_addition"
	UpdateKindDeletion        UpdateKind = "deletion"
	UpdateKindSettings        UpdateKind = "settings"
	UpdateKindClearAll        UpdateKind = "clear_all"
)

// UpdateStatus tracks an enqueued update through the applier's lifecycle.
type UpdateStatus string

const (
	UpdateStatusEnqueued   UpdateStatus = "enqueued"
	UpdateStatusProcessing UpdateStatus = "processing"
	UpdateStatusProcessed  UpdateStatus = "processed"
	UpdateStatusFailed     UpdateStatus = "failed"
)

// Update is one entry in the update queue's U-space log (spec.md §4.1).
// Only the fields its Kind uses are populated; the rest are zero.
type Update struct {
	ID        uint64     `json:"id"`
	Kind      UpdateKind `json:"kind"`
	CreatedAt time.Time  `json:"created_at"`

	// Documents carries the raw JSON array for Addition/PartialAddition.
	Documents []byte `json:"documents,omitempty"`
	// UserIDs carries the identifiers for Deletion.
	UserIDs []string `json:"user_ids,omitempty"`
	// SettingsJSON carries the raw JSON config.IndexSettings for Settings.
	SettingsJSON []byte `json:"settings,omitempty"`
}

// UpdateResult records the outcome of applying one Update (spec.md §4.1's
// UpdatesResults space).
type UpdateResult struct {
	UpdateID    uint64       `json:"update_id"`
	Status      UpdateStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	Inserted    int          `json:"inserted,omitempty"`
	Deleted     int          `json:"deleted,omitempty"`
	EnqueuedAt  time.Time    `json:"enqueued_at"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}
