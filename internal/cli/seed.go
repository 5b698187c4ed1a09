package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin/binding"
	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/justsurfingit/job-portal/internal/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedFile is the YAML layout read by `seed --file`.
type SeedFile struct {
	Jobs []SeedJob `yaml:"jobs"`
}

type SeedJob struct {
	Title            string            `yaml:"title"`
	Company          string            `yaml:"company"`
	Location         string            `yaml:"location"`
	JobType          string            `yaml:"job_type"`
	Level            string            `yaml:"level"`
	Description      string            `yaml:"description"`
	About            string            `yaml:"about"`
	Requirements     []string          `yaml:"requirements"`
	Tools            []string          `yaml:"tools"`
	Competency       []string          `yaml:"competency"`
	SalaryMin        int64             `yaml:"salary_min"`
	SalaryMax        int64             `yaml:"salary_max"`
	CandidatesNeeded int               `yaml:"candidates_needed"`
	Status           string            `yaml:"status"`
	StartDate        string            `yaml:"start_date"`
	ProfileFields    map[string]string `yaml:"profile_fields"`
}

// Request converts the entry into the same request the admin API takes.
func (j SeedJob) Request() *dtos.JobCreationRequest {
	req := &dtos.JobCreationRequest{
		Title:            j.Title,
		JobType:          j.JobType,
		Description:      j.Description,
		CandidatesNeeded: j.CandidatesNeeded,
		Company:          j.Company,
		Location:         j.Location,
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		Level:            j.Level,
		About:            j.About,
		Requirements:     j.Requirements,
		Tools:            j.Tools,
		Competency:       j.Competency,
		Status:           j.Status,
		StartDate:        j.StartDate,
	}
	if len(j.ProfileFields) > 0 {
		pf := j.ProfileFields
		req.ProfileFields = &dtos.ProfileFieldsRequest{
			FullName:     pf["full_name"],
			PhotoProfile: pf["photo_profile"],
			Gender:       pf["gender"],
			Domicile:     pf["domicile"],
			Email:        pf["email"],
			PhoneNumber:  pf["phone_number"],
			LinkedinLink: pf["linkedin_link"],
			DateOfBirth:  pf["date_of_birth"],
		}
	}
	return req
}

// ReadSeedFile parses a YAML seed file.
func ReadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

func newSeedCmd() *cobra.Command {
	var (
		file          string
		adminEmail    string
		adminPassword string
		adminName     string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision an admin account and load job openings",
		Example: `  # Create or promote an admin
  api seed --admin-email admin@example.com --admin-password 'S3cretPass'

  # Load jobs owned by that admin
  api seed --admin-email admin@example.com --admin-password 'S3cretPass' --file jobs.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && adminEmail == "" {
				return fmt.Errorf("nothing to seed: pass --file and/or --admin-email")
			}
			if adminEmail != "" && adminPassword == "" {
				return fmt.Errorf("--admin-password is required with --admin-email")
			}
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			if err := validation.RegisterWithGin(); err != nil {
				return err
			}
			db, err := database.Connect(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			return seed(cmd.Context(), db, cfg.DefaultCompany, file, adminEmail, adminPassword, adminName)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a jobs list")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "Admin account to create or promote")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "Password for the admin account")
	cmd.Flags().StringVar(&adminName, "admin-name", "Admin", "Display name for a new admin account")

	return cmd
}

// seed provisions the admin (when given) and creates every job in file as
// owned by that admin. Jobs are checked with the API's rules first.
func seed(ctx context.Context, db *gorm.DB, defaultCompany, file, adminEmail, adminPassword, adminName string) error {
	owner := &auth.Session{Role: models.RoleAdmin}
	if adminEmail != "" {
		authService := services.NewAuthService(db, nil)
		admin, err := authService.EnsureAdmin(ctx, adminEmail, adminPassword, adminName)
		if err != nil {
			return err
		}
		owner.UserID = admin.ID
		slog.Info("Admin ready", "email", admin.Email, "user_id", admin.ID)
	}
	if file == "" {
		return nil
	}

	f, err := ReadSeedFile(file)
	if err != nil {
		return err
	}
	jobService := services.NewJobService(db, defaultCompany)
	for i, j := range f.Jobs {
		req := j.Request()
		if err := binding.Validator.ValidateStruct(req); err != nil {
			var appErr *apperr.Error
			if errors.As(validation.Translate(err), &appErr) && len(appErr.Fields) > 0 {
				return fmt.Errorf("job %d (%q) is invalid: %v", i+1, j.Title, appErr.Fields)
			}
			return fmt.Errorf("job %d (%q): %w", i+1, j.Title, err)
		}
		job, err := jobService.CreateJob(ctx, owner, req)
		if err != nil {
			return fmt.Errorf("job %d (%q): %w", i+1, j.Title, err)
		}
		slog.Info("Seeded job", "id", job.ID, "title", job.Title)
	}
	slog.Info("Seed complete", "jobs", len(f.Jobs))
	return nil
}
