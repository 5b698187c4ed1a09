package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"gorm.io/gorm"
)

// classify maps storage errors onto the apperr taxonomy. what names the
// record for not-found messages, e.g. "job".
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	var netErr net.Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.CodeNotFound, what+" not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.CodeDuplicateSubmission, what+" already exists", err)
	case errors.Is(err, driver.ErrBadConn), errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.CodeNetworkFailure, "database unreachable", err)
	default:
		return apperr.Wrap(apperr.CodeInternal, "storage error", err)
	}
}
