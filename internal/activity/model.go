package activity

import (
	"time"

	"github.com/0x13a/jobstream/internal/user"
)

// Activity is one audit entry of an application's lifecycle.
type Activity struct {
	ID              int64     `json:"id"`
	ApplicationID   string    `json:"applicationId"`
	Status          string    `json:"status"`
	StatusChangedBy user.Role `json:"statusChangedBy"`
	Timestamp       time.Time `json:"timestamp"`
	Note            string    `json:"note"`
}
