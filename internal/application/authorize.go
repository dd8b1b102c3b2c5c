package application

import "github.com/0x13a/jobstream/internal/user"

// CanTransition is the status change matrix, first match wins:
//
//	ADMIN                 any status
//	target WITHDRAWN      only the owning APPLICANT
//	EMPLOYER              only for the employer's own company
//	anyone else           denied
func CanTransition(actor user.Actor, app Application, next Status) bool {
	switch {
	case actor.IsAdmin():
		return true
	case next == StatusWithdrawn:
		return actor.Role == user.RoleApplicant && actor.UserID == app.UserID
	case actor.Role == user.RoleEmployer:
		return actor.IsEmployerOf(app.CompanyID)
	}
	return false
}

// CanView reports whether actor may read app and its history.
func CanView(actor user.Actor, app Application) bool {
	return actor.IsAdmin() || actor.UserID == app.UserID || actor.IsEmployerOf(app.CompanyID)
}
