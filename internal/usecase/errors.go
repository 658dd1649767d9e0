package usecase

import (
	"context"
	"errors"
	"strings"

	"doctor-booking/internal/delivery/http/middleware"
	"doctor-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrStorage is returned when a required commit fails; callers may retry.
var ErrStorage = apperror.New(apperror.KindTransient, "storage unavailable, please retry")

func storageError(err error) error {
	return apperror.Wrap(apperror.KindTransient, ErrStorage.Message, err)
}

// isDuplicateKeyError reports a unique violation, whether or not the dialect
// translated it to gorm.ErrDuplicatedKey.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// actorFromContext returns the authenticated caller for the audit trail, if any.
func actorFromContext(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &userID
}
