package job

import (
	"time"
)

type JobPost struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"companyId"`
	JobTitle    string     `json:"jobTitle"`
	Slug        string     `json:"slug"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiredAt   *time.Time `json:"expiredAt,omitempty"`
}

