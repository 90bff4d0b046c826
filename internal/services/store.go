package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/logger"
)

// DefaultStoreTimeout bounds a store round trip when no timeout is configured.
const DefaultStoreTimeout = 5 * time.Second

// store binds a GORM handle to the per-call timeout every service applies.
type store struct {
	db      *gorm.DB
	timeout time.Duration
}

func newStore(db *gorm.DB, timeout time.Duration) store {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return store{db: db, timeout: timeout}
}

// with runs fn against a session that is cancelled once the timeout elapses.
func (s store) with(ctx context.Context, fn func(db *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return storageError(fn(s.db.WithContext(ctx)))
}

// tx runs fn inside a single database transaction under the store timeout.
func (s store) tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.with(ctx, func(db *gorm.DB) error {
		return db.Transaction(fn)
	})
}

// storageError passes application errors through untouched and reports
// every other failure as a transient storage error.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Get().Warnw("store round trip timed out", "error", err)
	} else {
		logger.Get().Errorw("store round trip failed", "error", err)
	}
	return apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
}

// notFound maps gorm.ErrRecordNotFound onto the given sentinel.
func notFound(err error, sentinel *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
