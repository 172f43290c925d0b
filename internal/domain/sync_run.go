package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskOrderSync    = "orders"
	TaskCustomerSync = "customers"
)

// SyncRun is the journal entry of one reconciliation run.
type SyncRun struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Task       string    `gorm:"size:30;index" json:"task"`
	StartedAt  time.Time `gorm:"index" json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Fetched    int       `json:"fetched"`
	Skipped    int       `json:"skipped"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Errored    int       `json:"errored"`
	Error      string    `gorm:"type:text" json:"error,omitempty"`
}

// Synced counts the records that reached the mirror.
func (r SyncRun) Synced() int { return r.Created + r.Updated }
