package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/justsurfingit/job-portal/internal/models"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

// Notification is one outgoing mail to an applicant.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a notification.
type Mailer interface {
	Send(ctx context.Context, n Notification) error
}

// GmailMailer sends through the Gmail API as the authorized account.
type GmailMailer struct {
	Client *gmail.Service
}

func (m *GmailMailer) Send(ctx context.Context, n Notification) error {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", n.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", n.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(n.Body)

	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(b.String()))}
	_, err := m.Client.Users.Messages.Send("me", msg).Context(ctx).Do()
	return err
}

// LogMailer only logs; it stands in when Gmail is not authorized.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, n Notification) error {
	slog.Info("notification (not sent)", "to", n.To, "subject", n.Subject)
	return nil
}

// NotificationService drains a buffered queue on one worker goroutine so
// request handlers never wait on mail delivery.
type NotificationService struct {
	mailer   Mailer
	queue    chan Notification
	attempts int
	backoff  time.Duration
}

func NewNotificationService(mailer Mailer, buffer int) *NotificationService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &NotificationService{
		mailer:   mailer,
		queue:    make(chan Notification, buffer),
		attempts: 3,
		backoff:  time.Second,
	}
}

// Enqueue queues n without blocking. It reports false when the queue is
// full and n was dropped.
func (s *NotificationService) Enqueue(n Notification) bool {
	if s == nil {
		return false
	}
	select {
	case s.queue <- n:
		return true
	default:
		slog.Warn("notification queue full, dropping mail", "to", n.To)
		return false
	}
}

// ApplicationStatusChanged tells an applicant their status moved.
func (s *NotificationService) ApplicationStatusChanged(app *models.Application, job *models.Job) {
	if app.Email == "" {
		return
	}
	title := "your application"
	if job != nil {
		title = fmt.Sprintf("%s at %s", job.Title, job.Company)
	}
	name := app.FullName
	if name == "" {
		name = "there"
	}
	s.Enqueue(Notification{
		To:      app.Email,
		Subject: "Update on your application: " + title,
		Body: fmt.Sprintf("Hi %s,\n\nThe status of your application for %s is now %q.\n\nThank you for applying.\n",
			name, title, app.Status),
	})
}

// Start runs the worker until ctx is cancelled.
func (s *NotificationService) Start(ctx context.Context) {
	slog.Info("notification worker started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("notification worker stopped")
			return
		case n := <-s.queue:
			s.deliver(ctx, n)
		}
	}
}

func (s *NotificationService) deliver(ctx context.Context, n Notification) {
	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := retry(sendCtx, s.attempts, s.backoff, func() error {
		return s.mailer.Send(sendCtx, n)
	})
	if err != nil {
		slog.Error("notification failed", "to", n.To, "subject", n.Subject, "err", err)
		return
	}
	slog.Info("notification sent", "to", n.To, "subject", n.Subject)
}

// retry executes f with exponential backoff. Client errors from the Gmail
// API are not retried.
func retry(ctx context.Context, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if isPermanent(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		slog.Warn("mail API error, retrying", "err", err, "in", sleep)
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}

func isPermanent(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code >= 400 && gErr.Code < 500 && gErr.Code != http.StatusTooManyRequests
	}
	return false
}
