package company

import (
	"time"
)

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Employer is the user account that answers for a company in conversations.
type Employer struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}
