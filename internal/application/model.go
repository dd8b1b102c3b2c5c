package application

import (
	"strings"
	"time"

	"github.com/0x13a/jobstream/internal/apperror"
)

type Status string

const (
	StatusApplied   Status = "APPLIED"
	StatusReviewed  Status = "REVIEWED"
	StatusRejected  Status = "REJECTED"
	StatusAccepted  Status = "ACCEPTED"
	StatusWithdrawn Status = "WITHDRAWN"
)

// ParseStatus accepts any known status regardless of case.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusApplied, StatusReviewed, StatusRejected, StatusAccepted, StatusWithdrawn:
		return st, nil
	}
	return "", apperror.InvalidStatus(s)
}

type Application struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	CompanyID       string    `json:"companyId"`
	JobID           string    `json:"jobId"`
	JobTitle        string    `json:"jobTitle"`
	CoverLetterText string    `json:"coverLetterText"`
	ApplicationDate time.Time `json:"applicationDate"`
	Status          Status    `json:"status"`
}
