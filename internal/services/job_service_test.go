package services

import (
	"context"
	"errors"
	"testing"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/database/testdb"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
)

func TestCreateJobDefaults(t *testing.T) {
	svc := NewJobService(testdb.New(t), "Rakamin")
	job := createJob(t, svc, "Backend Engineer", func(r *dtos.JobCreationRequest) {
		r.StartDate = "2025-07-01"
		r.ProfileFields = &dtos.ProfileFieldsRequest{LinkedinLink: models.FieldOff}
	})

	if job.Company != "Rakamin" || job.Status != models.JobStatusActive || job.CreatedBy != adminSession.UserID {
		t.Fatalf("unexpected defaults: %+v", job)
	}
	if job.StartDate == nil || job.StartDate.Format("2006-01-02") != "2025-07-01" {
		t.Fatalf("unexpected start date %v", job.StartDate)
	}
	if job.ProfileFields.LinkedinLink != models.FieldOff || job.ProfileFields.Email != models.FieldMandatory {
		t.Fatalf("unexpected profile fields %+v", job.ProfileFields)
	}
}

func TestUpdateJobPartial(t *testing.T) {
	svc := NewJobService(testdb.New(t), "Rakamin")
	job := createJob(t, svc, "Backend Engineer", func(r *dtos.JobCreationRequest) {
		r.SalaryMin, r.SalaryMax = 100, 200
	})

	title := "Platform Engineer"
	updated, err := svc.UpdateJob(context.Background(), job.ID, &dtos.JobUpdateRequest{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title || updated.Description != job.Description || updated.SalaryMax != 200 {
		t.Fatalf("unexpected update result %+v", updated)
	}

	low := int64(50)
	_, err = svc.UpdateJob(context.Background(), job.ID, &dtos.JobUpdateRequest{SalaryMax: &low})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected salary validation error, got %v", err)
	}

	_, err = svc.UpdateJob(context.Background(), "missing", &dtos.JobUpdateRequest{Title: &title})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteJobRemovesApplications(t *testing.T) {
	db := testdb.New(t)
	svc := NewJobService(db, "Rakamin")
	job := createJob(t, svc, "Backend Engineer", nil)
	if err := db.Create(&models.Application{JobID: job.ID, UserID: "u"}).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}

	if err := svc.DeleteJob(context.Background(), job.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var count int64
	db.Model(&models.Application{}).Where("job_id = ?", job.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected applications removed, %d left", count)
	}
	if err := svc.DeleteJob(context.Background(), job.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestGetJobHidesInactiveFromApplicants(t *testing.T) {
	svc := NewJobService(testdb.New(t), "Rakamin")
	job := createJob(t, svc, "Draft Role", func(r *dtos.JobCreationRequest) { r.Status = models.JobStatusDraft })

	if _, err := svc.GetJob(context.Background(), userSession, job.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for applicant, got %v", err)
	}
	if _, err := svc.GetJob(context.Background(), nil, job.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for guest, got %v", err)
	}
	if _, err := svc.GetJob(context.Background(), adminSession, job.ID); err != nil {
		t.Fatalf("admin should see draft: %v", err)
	}
}

func TestListJobs(t *testing.T) {
	svc := NewJobService(testdb.New(t), "Rakamin")
	createJob(t, svc, "Backend Engineer", nil)
	createJob(t, svc, "Frontend Engineer", nil)
	createJob(t, svc, "Data Analyst", func(r *dtos.JobCreationRequest) { r.Status = models.JobStatusInactive })

	active, err := svc.ListActive(context.Background(), dtos.ListQuery{})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if active.TotalItems != 2 {
		t.Fatalf("expected 2 active jobs, got %d", active.TotalItems)
	}

	filtered, err := svc.ListAll(context.Background(), dtos.ListQuery{Query: "ENGINEER", PageSize: 1, Page: 2})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if filtered.TotalItems != 2 || filtered.TotalPages != 2 || len(filtered.Items) != 1 {
		t.Fatalf("unexpected page %+v", filtered)
	}

	mine, err := svc.ListMine(context.Background(), userSession, dtos.ListQuery{})
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if mine.TotalItems != 0 {
		t.Fatalf("user owns no jobs, got %d", mine.TotalItems)
	}
}
