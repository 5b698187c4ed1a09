package services

import (
	"context"
	"strings"
	"time"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/listing"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/validation"
	"gorm.io/gorm"
)

type JobService struct {
	DB             *gorm.DB
	DefaultCompany string
}

func NewJobService(db *gorm.DB, defaultCompany string) *JobService {
	return &JobService{
		DB:             db,
		DefaultCompany: defaultCompany,
	}
}

// CreateJob stores a new opening owned by the admin in sess.
func (s *JobService) CreateJob(ctx context.Context, sess *auth.Session, req *dtos.JobCreationRequest) (*models.Job, error) {
	company := strings.TrimSpace(req.Company)
	if company == "" {
		company = s.DefaultCompany
	}
	status := req.Status
	if status == "" {
		status = models.JobStatusActive
	}
	start, err := parseStartDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		Title:            strings.TrimSpace(req.Title),
		Company:          company,
		Location:         req.Location,
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
		JobType:          req.JobType,
		Level:            req.Level,
		Description:      req.Description,
		About:            req.About,
		Requirements:     req.Requirements,
		Tools:            req.Tools,
		Competency:       req.Competency,
		Status:           status,
		CandidatesNeeded: req.CandidatesNeeded,
		StartDate:        start,
		ProfileFields:    req.ProfileFields.Model(),
		CreatedBy:        sess.UserID,
	}
	if err := s.DB.WithContext(ctx).Create(job).Error; err != nil {
		return nil, classify(err, "job")
	}
	return job, nil
}

// UpdateJob applies the non-nil fields of req.
func (s *JobService) UpdateJob(ctx context.Context, id string, req *dtos.JobUpdateRequest) (*models.Job, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, classify(err, "job")
	}

	setString(&job.Title, req.Title)
	setString(&job.JobType, req.JobType)
	setString(&job.Description, req.Description)
	setString(&job.Company, req.Company)
	setString(&job.Location, req.Location)
	setString(&job.Level, req.Level)
	setString(&job.About, req.About)
	setString(&job.Status, req.Status)
	if req.CandidatesNeeded != nil {
		job.CandidatesNeeded = *req.CandidatesNeeded
	}
	if req.SalaryMin != nil {
		job.SalaryMin = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = *req.SalaryMax
	}
	if req.Requirements != nil {
		job.Requirements = req.Requirements
	}
	if req.Tools != nil {
		job.Tools = req.Tools
	}
	if req.Competency != nil {
		job.Competency = req.Competency
	}
	if req.StartDate != nil {
		start, err := parseStartDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		job.StartDate = start
	}
	if req.ProfileFields != nil {
		job.ProfileFields = req.ProfileFields.Model()
	}
	if job.SalaryMax < job.SalaryMin {
		return nil, apperr.Validation("please complete all required fields", map[string]string{
			"salary_max": "must not be less than salary_min",
		})
	}

	if err := s.DB.WithContext(ctx).Save(&job).Error; err != nil {
		return nil, classify(err, "job")
	}
	return &job, nil
}

// DeleteJob removes a job together with its applications.
func (s *JobService) DeleteJob(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Job{}, "id = ?", id)
		if res.Error != nil {
			return classify(res.Error, "job")
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.CodeNotFound, "job not found")
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return classify(err, "application")
		}
		return nil
	})
}

// GetJob returns one job. Only admins can see jobs that are not active.
func (s *JobService) GetJob(ctx context.Context, sess *auth.Session, id string) (*models.Job, error) {
	q := s.DB.WithContext(ctx).Where("id = ?", id)
	if !sess.IsAdmin() {
		q = q.Where("status = ?", models.JobStatusActive)
	}
	var job models.Job
	if err := q.First(&job).Error; err != nil {
		return nil, classify(err, "job")
	}
	return &job, nil
}

// ListActive is the public job list.
func (s *JobService) ListActive(ctx context.Context, q dtos.ListQuery) (listing.Page[models.Job], error) {
	return s.list(ctx, q, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", models.JobStatusActive)
	})
}

// ListAll is the admin job list in every status.
func (s *JobService) ListAll(ctx context.Context, q dtos.ListQuery) (listing.Page[models.Job], error) {
	return s.list(ctx, q, nil)
}

// ListMine lists the jobs the admin in sess created.
func (s *JobService) ListMine(ctx context.Context, sess *auth.Session, q dtos.ListQuery) (listing.Page[models.Job], error) {
	return s.list(ctx, q, func(db *gorm.DB) *gorm.DB {
		return db.Where("created_by = ?", sess.UserID)
	})
}

func (s *JobService) list(ctx context.Context, q dtos.ListQuery, scope func(*gorm.DB) *gorm.DB) (listing.Page[models.Job], error) {
	db := s.DB.WithContext(ctx).Order("created_at DESC")
	if scope != nil {
		db = scope(db)
	}
	var jobs []models.Job
	if err := db.Find(&jobs).Error; err != nil {
		return listing.Page[models.Job]{}, classify(err, "job")
	}
	jobs = listing.Filter(jobs, q.Query, func(j models.Job) string { return j.Title })
	return listing.Paginate(jobs, q.Page, q.PageSize), nil
}

func parseStartDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(validation.DateLayout, v)
	if err != nil {
		return nil, apperr.Validation("please complete all required fields", map[string]string{
			"start_date": "must be a date in YYYY-MM-DD format",
		})
	}
	return &t, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
