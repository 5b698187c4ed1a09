package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/database/testdb"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/selection"
	"github.com/justsurfingit/job-portal/internal/storage"
	"gorm.io/gorm"
)

type fakeCaptures map[string]string

func (f fakeCaptures) PhotoURL(userID, sessionID string) (string, error) {
	if url, ok := f[userID+"/"+sessionID]; ok {
		return url, nil
	}
	return "", apperr.Validation("photo is missing", map[string]string{"capture_session_id": "not found"})
}

type appFixture struct {
	db       *gorm.DB
	photoDir string
	jobs     *JobService
	apps     *ApplicationService
	notifier *NotificationService
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	db := testdb.New(t)
	notifier := NewNotificationService(nil, 16)
	photoDir := t.TempDir()
	photos := storage.NewPhotoStore(photoDir, "/media", 1<<20)
	captures := fakeCaptures{"user-1/cap-1": "/media/applications/user-1_cap-1_1.jpg"}
	return &appFixture{
		db:       db,
		photoDir: photoDir,
		jobs:     NewJobService(db, "Rakamin"),
		apps:     NewApplicationService(db, photos, captures, notifier),
		notifier: notifier,
	}
}

func fullApplication(jobID string) *dtos.ApplicationRequest {
	return &dtos.ApplicationRequest{
		JobID:       jobID,
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		PhoneNumber: "81214636365",
		CountryCode: "+62",
		DateOfBirth: "1995-04-12",
		Gender:      "female",
		Domicile:    "Jakarta",
		LinkedinURL: "https://linkedin.com/in/jane",
		PhotoData:   jpegBase64(),
	}
}

func TestSubmitApplication(t *testing.T) {
	f := newAppFixture(t)
	job := createJob(t, f.jobs, "Backend Engineer", nil)

	app, err := f.apps.Submit(context.Background(), userSession, fullApplication(job.ID))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if app.Status != models.ApplicationPending || app.UserID != userSession.UserID {
		t.Fatalf("unexpected application %+v", app)
	}
	if !strings.HasPrefix(app.PhotoURL, "/media/applications/user-1_"+job.ID+"_") {
		t.Fatalf("unexpected photo url %s", app.PhotoURL)
	}

	applied, err := f.apps.HasApplied(context.Background(), userSession, job.ID)
	if err != nil || !applied {
		t.Fatalf("expected applied, got %v %v", applied, err)
	}
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	f := newAppFixture(t)
	job := createJob(t, f.jobs, "Backend Engineer", nil)
	if _, err := f.apps.Submit(context.Background(), userSession, fullApplication(job.ID)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := f.apps.Submit(context.Background(), userSession, fullApplication(job.ID))
	if !errors.Is(err, apperr.ErrDuplicateSubmission) {
		t.Fatalf("expected duplicate submission, got %v", err)
	}
}

func TestSubmitRemovesPhotoWhenInsertFails(t *testing.T) {
	f := newAppFixture(t)
	job := createJob(t, f.jobs, "Backend Engineer", nil)
	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_applications", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "applications" {
			tx.AddError(errors.New("disk full"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if _, err := f.apps.Submit(context.Background(), userSession, fullApplication(job.ID)); err == nil || apperr.CodeOf(err) != apperr.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(f.photoDir, "applications"))
	if len(entries) != 0 {
		t.Fatalf("expected no stored photos, found %d", len(entries))
	}
}

func TestSubmitEnforcesProfileFields(t *testing.T) {
	f := newAppFixture(t)
	job := createJob(t, f.jobs, "Backend Engineer", func(r *dtos.JobCreationRequest) {
		r.ProfileFields = &dtos.ProfileFieldsRequest{
			LinkedinLink: models.FieldOff,
			Domicile:     models.FieldOptional,
			PhotoProfile: models.FieldOptional,
		}
	})

	req := fullApplication(job.ID)
	req.Email = ""
	req.Domicile = ""
	_, err := f.apps.Submit(context.Background(), userSession, req)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(appErr.Fields) != 1 || appErr.Fields["email"] == "" {
		t.Fatalf("only email should be missing, got %v", appErr.Fields)
	}

	req.Email = "jane@example.com"
	req.PhotoData = ""
	app, err := f.apps.Submit(context.Background(), userSession, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if app.LinkedinURL != "" {
		t.Fatalf("off field should be dropped, got %q", app.LinkedinURL)
	}
	if app.PhotoURL != "" {
		t.Fatalf("no photo expected, got %q", app.PhotoURL)
	}
}

func TestSubmitUsesCapturedPhoto(t *testing.T) {
	f := newAppFixture(t)
	job := createJob(t, f.jobs, "Backend Engineer", nil)

	req := fullApplication(job.ID)
	req.PhotoData = ""
	req.CaptureSessionID = "cap-1"
	app, err := f.apps.Submit(context.Background(), userSession, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if app.PhotoURL != "/media/applications/user-1_cap-1_1.jpg" {
		t.Fatalf("unexpected photo url %s", app.PhotoURL)
	}

	other := &auth.Session{ID: "s2", UserID: "user-2", Role: models.RoleUser}
	req.CaptureSessionID = "cap-1"
	if _, err := f.apps.Submit(context.Background(), other, req); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("another user's capture must be rejected, got %v", err)
	}
}

func TestSubmitToInactiveJob(t *testing.T) {
	f := newAppFixture(t)
	job := createJob(t, f.jobs, "Closed", func(r *dtos.JobCreationRequest) { r.Status = models.JobStatusInactive })
	if _, err := f.apps.Submit(context.Background(), userSession, fullApplication(job.ID)); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMineIncludesJob(t *testing.T) {
	f := newAppFixture(t)
	job := createJob(t, f.jobs, "Backend Engineer", nil)
	if _, err := f.apps.Submit(context.Background(), userSession, fullApplication(job.ID)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	apps, err := f.apps.Mine(context.Background(), userSession)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(apps) != 1 || apps[0].Job == nil || apps[0].Job.Title != "Backend Engineer" {
		t.Fatalf("unexpected applications %+v", apps)
	}
}

func submitAs(t *testing.T, f *appFixture, jobID, userID, name string) *models.Application {
	t.Helper()
	req := fullApplication(jobID)
	req.FullName = name
	app, err := f.apps.Submit(context.Background(), &auth.Session{UserID: userID, Role: models.RoleUser}, req)
	if err != nil {
		t.Fatalf("submit %s: %v", name, err)
	}
	return app
}

func TestUpdateStatusNotifies(t *testing.T) {
	f := newAppFixture(t)
	job := createJob(t, f.jobs, "Backend Engineer", nil)
	app := submitAs(t, f, job.ID, "u1", "Jane")

	updated, err := f.apps.UpdateStatus(context.Background(), app.ID, models.ApplicationAccepted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != models.ApplicationAccepted {
		t.Fatalf("status not updated: %+v", updated)
	}
	sent := drain(f.notifier)
	if len(sent) != 1 || sent[0].To != "jane@example.com" || !strings.Contains(sent[0].Body, "accepted") {
		t.Fatalf("unexpected notifications %+v", sent)
	}

	if _, err := f.apps.UpdateStatus(context.Background(), app.ID, models.ApplicationAccepted); err != nil {
		t.Fatalf("repeat update: %v", err)
	}
	if sent := drain(f.notifier); len(sent) != 0 {
		t.Fatalf("unchanged status should not notify, got %+v", sent)
	}
}

func TestCandidatesSelection(t *testing.T) {
	f := newAppFixture(t)
	job := createJob(t, f.jobs, "Backend Engineer", nil)
	a := submitAs(t, f, job.ID, "u1", "Alice")
	b := submitAs(t, f, job.ID, "u2", "Bob")
	submitAs(t, f, job.ID, "u3", "Alicia")

	page, err := f.apps.Candidates(context.Background(), job.ID, dtos.ListQuery{Query: "ali"}, []string{a.ID, b.ID})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if page.TotalItems != 2 || page.Selection != selection.Partial || len(page.Selected) != 1 || page.Selected[0] != a.ID {
		t.Fatalf("unexpected page %+v", page)
	}

	if _, err := f.apps.Candidates(context.Background(), "missing", dtos.ListQuery{}, nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBulkUpdateStatus(t *testing.T) {
	f := newAppFixture(t)
	job := createJob(t, f.jobs, "Backend Engineer", nil)
	a := submitAs(t, f, job.ID, "u1", "Alice")
	b := submitAs(t, f, job.ID, "u2", "Bob")
	c := submitAs(t, f, job.ID, "u3", "Carol")

	n, err := f.apps.BulkUpdateStatus(context.Background(), job.ID, &dtos.BulkStatusRequest{
		Status:  models.ApplicationReviewed,
		All:     true,
		Exclude: []string{b.ID},
	})
	if err != nil {
		t.Fatalf("bulk all: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 changes, got %d", n)
	}
	if sent := drain(f.notifier); len(sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(sent))
	}

	n, err = f.apps.BulkUpdateStatus(context.Background(), job.ID, &dtos.BulkStatusRequest{
		Status: models.ApplicationRejected,
		IDs:    []string{c.ID, "unknown"},
	})
	if err != nil || n != 1 {
		t.Fatalf("bulk ids: n=%d err=%v", n, err)
	}

	_, err = f.apps.BulkUpdateStatus(context.Background(), job.ID, &dtos.BulkStatusRequest{Status: models.ApplicationRejected})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("empty selection should be rejected, got %v", err)
	}

	page, err := f.apps.Candidates(context.Background(), job.ID, dtos.ListQuery{}, nil)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	want := map[string]string{a.ID: models.ApplicationReviewed, b.ID: models.ApplicationPending, c.ID: models.ApplicationRejected}
	for _, app := range page.Items {
		if app.Status != want[app.ID] {
			t.Errorf("%s: status %s, want %s", app.FullName, app.Status, want[app.ID])
		}
	}
}
