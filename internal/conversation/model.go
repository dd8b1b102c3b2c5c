package conversation

import (
	"time"
)

// Conversation is the two-party thread opened when an application is submitted.
// Participants are fixed at creation.
type Conversation struct {
	ID            string    `json:"id"`
	EmployerID    string    `json:"employerId"`
	EmployerName  string    `json:"employerName"`
	ApplicantID   string    `json:"applicantId"`
	ApplicantName string    `json:"applicantName"`
	ApplicationID string    `json:"applicationId"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	Messages      []Message `json:"messages,omitempty"`
}

func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.EmployerID == userID || c.ApplicantID == userID)
}

// Message IDs increase monotonically, so ordering by ID is send order.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// Seed carries what the bootstrapper needs from a freshly created application.
type Seed struct {
	ApplicationID   string
	CompanyID       string
	JobTitle        string
	CoverLetterText string
	ApplicantID     string
	ApplicantName   string
}
