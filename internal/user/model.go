package user

import "time"

type Role string

const (
	RoleApplicant Role = "APPLICANT"
	RoleEmployer  Role = "EMPLOYER"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleApplicant, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID                 string
	Email              string
	FirstName          string
	LastName           string
	Role               Role
	CompanyID          string
	ProfileID          string
	CreatedAtHumanised string
	CreatedAt          time.Time
}

// Actor is the authenticated caller of a core operation.
// CompanyID is set for employers, ProfileID for applicants with a resume.
type Actor struct {
	UserID    string
	Name      string
	Role      Role
	CompanyID string
	ProfileID string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsEmployerOf(companyID string) bool {
	return a.Role == RoleEmployer && a.CompanyID != "" && a.CompanyID == companyID
}
