package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/company"
	"github.com/0x13a/jobstream/internal/config"
	"github.com/0x13a/jobstream/internal/database"
	"github.com/0x13a/jobstream/internal/job"
	"github.com/0x13a/jobstream/internal/middleware"
	"github.com/0x13a/jobstream/internal/user"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
)

func main() {
	companyName := flag.String("company", "Acme", "name of the employer's company")
	jobTitle := flag.String("job", "Senior Go Developer", "title of the seeded job")
	ttl := flag.Duration("ttl", 24*time.Hour, "validity of the printed tokens")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	log.Info().Msg("seeding employer, company, job and applicant")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load config")
	}
	conn, err := database.GetDbConn(cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseName, cfg.DatabaseSSLMode)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect to postgres")
	}
	defer database.CloseDbConn(conn)
	if err := database.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("unable to migrate database")
	}

	ctx := context.Background()
	userRepo := user.NewRepository(conn)
	companyRepo := company.NewRepository(conn)
	jobRepo := job.NewRepository(conn)

	employer, err := userRepo.SaveUser(ctx, user.User{Email: "employer@" + slug.Make(*companyName) + ".test", FirstName: "Grace", LastName: "Hopper", Role: user.RoleEmployer})
	if err != nil {
		log.Fatal().Err(err).Msg("unable to save employer")
	}
	c, err := companyRepo.RegisterCompany(ctx, company.Company{Name: *companyName, URL: "https://" + slug.Make(*companyName) + ".test", OwnerID: employer.ID})
	if errors.Is(err, apperror.CompanyAlreadyRegistered()) {
		c, err = companyRepo.CompanyBySlug(ctx, slug.Make(*companyName))
	}
	if err != nil {
		log.Fatal().Err(err).Msg("unable to register company")
	}
	if err := userRepo.SetCompany(ctx, employer.ID, c.ID); err != nil {
		log.Fatal().Err(err).Msg("unable to link employer to company")
	}
	employer.CompanyID = c.ID

	j, err := jobRepo.SaveJobPost(ctx, job.JobPost{CompanyID: c.ID, JobTitle: *jobTitle, Location: "Remote", Description: "Build things in Go."})
	if err != nil {
		log.Fatal().Err(err).Msg("unable to save job")
	}
	applicant, err := userRepo.SaveUser(ctx, user.User{Email: "applicant@example.test", FirstName: "Ada", LastName: "Lovelace", Role: user.RoleApplicant, ProfileID: "profile-ada"})
	if err != nil {
		log.Fatal().Err(err).Msg("unable to save applicant")
	}

	employerToken, err := middleware.NewUserJWT(employer, *ttl, cfg.JwtSigningKey)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to sign employer token")
	}
	applicantToken, err := middleware.NewUserJWT(applicant, *ttl, cfg.JwtSigningKey)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to sign applicant token")
	}
	log.Info().Str("company_id", c.ID).Str("job_id", j.ID).Msg("seeded")
	fmt.Printf("JOB_ID=%s\nEMPLOYER_TOKEN=%s\nAPPLICANT_TOKEN=%s\n", j.ID, employerToken, applicantToken)
}
