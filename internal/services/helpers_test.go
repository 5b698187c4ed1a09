package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
)

var (
	adminSession = &auth.Session{ID: "s-admin", UserID: "admin-1", Role: models.RoleAdmin}
	userSession  = &auth.Session{ID: "s-user", UserID: "user-1", Role: models.RoleUser}
)

var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)

func jpegBase64() string { return base64.StdEncoding.EncodeToString(jpegBytes) }

func createJob(t *testing.T, svc *JobService, title string, mutate func(*dtos.JobCreationRequest)) *models.Job {
	t.Helper()
	req := &dtos.JobCreationRequest{
		Title:            title,
		JobType:          "Full-Time",
		Description:      "Build things",
		CandidatesNeeded: 1,
	}
	if mutate != nil {
		mutate(req)
	}
	job, err := svc.CreateJob(context.Background(), adminSession, req)
	if err != nil {
		t.Fatalf("create job %q: %v", title, err)
	}
	return job
}

func drain(n *NotificationService) []Notification {
	var out []Notification
	for {
		select {
		case msg := <-n.queue:
			out = append(out, msg)
		default:
			return out
		}
	}
}
