package conversation

import (
	"context"
	"time"

	"github.com/0x13a/jobstream/internal/company"
	"github.com/0x13a/jobstream/internal/database"

	"github.com/segmentio/ksuid"
)

const jobTitlePrefix = "Job Title : "

type employerResolver interface {
	Resolve(ctx context.Context, companyID string) (company.Employer, error)
}

// Bootstrapper opens the conversation that accompanies every new application.
type Bootstrapper struct {
	employers employerResolver
}

func NewBootstrapper(employers employerResolver) *Bootstrapper {
	return &Bootstrapper{employers: employers}
}

// Bootstrap creates the conversation on q and seeds it with the job title
// and the cover letter, both sent by the applicant. q is normally the
// transaction that also holds the application insert.
func (b *Bootstrapper) Bootstrap(ctx context.Context, q database.Querier, seed Seed) (Conversation, error) {
	employer, err := b.employers.Resolve(ctx, seed.CompanyID)
	if err != nil {
		return Conversation{}, err
	}
	conversationID, err := ksuid.NewRandom()
	if err != nil {
		return Conversation{}, err
	}
	c := Conversation{
		ID:            conversationID.String(),
		EmployerID:    employer.UserID,
		EmployerName:  employer.Name,
		ApplicantID:   seed.ApplicantID,
		ApplicantName: seed.ApplicantName,
		ApplicationID: seed.ApplicationID,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}
	repo := NewRepository(q)
	if err := repo.Create(ctx, c); err != nil {
		return Conversation{}, err
	}
	for _, content := range []string{jobTitlePrefix + seed.JobTitle, seed.CoverLetterText} {
		m, err := repo.AppendMessage(ctx, c.ID, seed.ApplicantID, content)
		if err != nil {
			return Conversation{}, err
		}
		c.Messages = append(c.Messages, m)
	}
	return c, nil
}
