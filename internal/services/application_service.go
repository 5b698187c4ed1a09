package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/listing"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/selection"
	"github.com/justsurfingit/job-portal/internal/storage"
	"github.com/justsurfingit/job-portal/internal/validation"
	"gorm.io/gorm"
)

var errAlreadyApplied = apperr.New(apperr.CodeDuplicateSubmission, "you have already applied for this job")

// CapturedPhotos looks up photos taken by a guided capture session.
type CapturedPhotos interface {
	PhotoURL(userID, sessionID string) (string, error)
}

type ApplicationService struct {
	DB       *gorm.DB
	Photos   *storage.PhotoStore
	Captures CapturedPhotos
	Notifier *NotificationService
}

func NewApplicationService(db *gorm.DB, photos *storage.PhotoStore, captures CapturedPhotos, notifier *NotificationService) *ApplicationService {
	return &ApplicationService{
		DB:       db,
		Photos:   photos,
		Captures: captures,
		Notifier: notifier,
	}
}

// Submit files an application for the signed-in user. The job's profile
// field levels decide which fields are required; fields the job turned off
// are not stored.
func (s *ApplicationService) Submit(ctx context.Context, sess *auth.Session, req *dtos.ApplicationRequest) (*models.Application, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).
		Where("id = ? AND status = ?", req.JobID, models.JobStatusActive).
		First(&job).Error
	if err != nil {
		return nil, classify(err, "job")
	}

	levels := job.ProfileFields.Levels()
	if missing := validation.CheckProfile(levels, req.Present()); missing != nil {
		return nil, apperr.Validation("please complete all required fields", missing)
	}

	applied, err := s.HasApplied(ctx, sess, job.ID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, errAlreadyApplied
	}

	keep := func(field, v string) string {
		if levels[field] == models.FieldOff {
			return ""
		}
		return strings.TrimSpace(v)
	}
	app := &models.Application{
		JobID:       job.ID,
		UserID:      sess.UserID,
		FullName:    keep("full_name", req.FullName),
		Email:       keep("email", req.Email),
		PhoneNumber: keep("phone_number", req.PhoneNumber),
		DateOfBirth: keep("date_of_birth", req.DateOfBirth),
		Gender:      keep("gender", req.Gender),
		Domicile:    keep("domicile", req.Domicile),
		LinkedinURL: keep("linkedin_link", req.LinkedinURL),
		Status:      models.ApplicationPending,
	}
	if app.PhoneNumber != "" {
		app.CountryCode = req.CountryCode
	}
	if levels["photo_profile"] != models.FieldOff {
		if app.PhotoURL, err = s.photo(sess, job.ID, req); err != nil {
			return nil, err
		}
	}

	if err := s.DB.WithContext(ctx).Create(app).Error; err != nil {
		if req.PhotoData != "" && app.PhotoURL != "" {
			if rmErr := s.Photos.Remove(app.PhotoURL); rmErr != nil {
				slog.Warn("orphaned application photo", "url", app.PhotoURL, "err", rmErr)
			}
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errAlreadyApplied
		}
		return nil, classify(err, "application")
	}
	slog.Info("application submitted", "application_id", app.ID, "job_id", job.ID, "user_id", sess.UserID)
	return app, nil
}

func (s *ApplicationService) photo(sess *auth.Session, jobID string, req *dtos.ApplicationRequest) (string, error) {
	switch {
	case req.PhotoData != "":
		return s.Photos.SaveApplicationPhoto(sess.UserID, jobID, req.PhotoData)
	case req.CaptureSessionID != "" && s.Captures != nil:
		return s.Captures.PhotoURL(sess.UserID, req.CaptureSessionID)
	default:
		return "", nil
	}
}

// HasApplied reports whether the user already applied to jobID.
func (s *ApplicationService) HasApplied(ctx context.Context, sess *auth.Session, jobID string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Application{}).
		Where("job_id = ? AND user_id = ?", jobID, sess.UserID).
		Count(&count).Error
	if err != nil {
		return false, classify(err, "application")
	}
	return count > 0, nil
}

// Mine lists the user's applications with their job summary, newest first.
func (s *ApplicationService) Mine(ctx context.Context, sess *auth.Session) ([]models.Application, error) {
	var apps []models.Application
	err := s.DB.WithContext(ctx).Preload("Job").
		Where("user_id = ?", sess.UserID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, classify(err, "application")
	}
	return apps, nil
}

// CandidatePage is one page of a job's candidates plus the table's
// checkbox state for the ids the client has selected.
type CandidatePage struct {
	listing.Page[models.Application]
	Selection selection.State `json:"selection"`
	Selected  []string        `json:"selected"`
}

// Candidates lists the applicants of a job filtered by name.
func (s *ApplicationService) Candidates(ctx context.Context, jobID string, q dtos.ListQuery, selected []string) (*CandidatePage, error) {
	_, apps, err := s.candidates(ctx, jobID, q.Query)
	if err != nil {
		return nil, err
	}
	page := listing.Paginate(apps, q.Page, q.PageSize)

	set := selection.Resolve(applicationIDs(page.Items), false, selected, nil)
	return &CandidatePage{
		Page:      page,
		Selection: set.State(),
		Selected:  set.Selected(),
	}, nil
}

func (s *ApplicationService) candidates(ctx context.Context, jobID, query string) (*models.Job, []models.Application, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		return nil, nil, classify(err, "job")
	}
	var apps []models.Application
	err := s.DB.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, nil, classify(err, "application")
	}
	return &job, listing.Filter(apps, query, func(a models.Application) string { return a.FullName }), nil
}

// UpdateStatus moves one application to status and notifies the applicant.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id, status string) (*models.Application, error) {
	var app models.Application
	if err := s.DB.WithContext(ctx).Preload("Job").First(&app, "id = ?", id).Error; err != nil {
		return nil, classify(err, "application")
	}
	if app.Status == status {
		return &app, nil
	}
	if err := s.DB.WithContext(ctx).Model(&app).Update("status", status).Error; err != nil {
		return nil, classify(err, "application")
	}
	app.Status = status
	s.Notifier.ApplicationStatusChanged(&app, app.Job)
	return &app, nil
}

// BulkUpdateStatus applies one status to the candidates a table selection
// describes: all rows matching req.Query minus req.Exclude, or req.IDs.
// It returns how many applications changed.
func (s *ApplicationService) BulkUpdateStatus(ctx context.Context, jobID string, req *dtos.BulkStatusRequest) (int, error) {
	job, apps, err := s.candidates(ctx, jobID, req.Query)
	if err != nil {
		return 0, err
	}
	set := selection.Resolve(applicationIDs(apps), req.All, req.IDs, req.Exclude)
	if set.State() == selection.None {
		return 0, apperr.Validation("select at least one candidate", map[string]string{
			"ids": "no candidate selected",
		})
	}

	changed := 0
	for i := range apps {
		app := &apps[i]
		if !set.IsSelected(app.ID) || app.Status == req.Status {
			continue
		}
		if err := s.DB.WithContext(ctx).Model(app).Update("status", req.Status).Error; err != nil {
			return changed, classify(err, "application")
		}
		app.Status = req.Status
		changed++
		s.Notifier.ApplicationStatusChanged(app, job)
	}
	slog.Info("candidate statuses updated", "job_id", jobID, "status", req.Status, "count", changed)
	return changed, nil
}

func applicationIDs(apps []models.Application) []string {
	ids := make([]string, len(apps))
	for i, a := range apps {
		ids[i] = a.ID
	}
	return ids
}
