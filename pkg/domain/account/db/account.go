package db

import (
	"context"
	"time"

	"github.com/opst/orcaobra/pkg/domain"
)

type AccountInterface interface {
	// Ensure returns the profile of the user, creating a free one at first.
	// The email is updated when changed.
	Ensure(ctx context.Context, userID, email string) (*domain.Profile, error)

	// Get returns ErrMissing when the user has no profile.
	Get(ctx context.Context, userID string) (*domain.Profile, error)

	// RecordUsage logs a metered action of the user.
	RecordUsage(ctx context.Context, userID string, kind domain.UsageKind) error

	// CountUsage counts actions of kind by the user since the time.
	CountUsage(ctx context.Context, userID string, kind domain.UsageKind, since time.Time) (int, error)

	// ReserveUsage records a metered action of the user when the quota of its
	// plan allows one more since the time, and returns the ID of the record.
	//
	// Reservations of one user are serialized, so concurrent requests cannot
	// pass the quota together.
	//
	// Returns ErrQuotaExceeded beyond the quota, and ErrMissing when the user has no profile.
	ReserveUsage(ctx context.Context, userID string, kind domain.UsageKind, since time.Time, quota domain.Quota) (int64, error)

	// ReleaseUsage cancels a reservation which is not used.
	ReleaseUsage(ctx context.Context, userID string, usageID int64) error

	// SetPlan changes the plan of the user. Returns ErrMissing when not found.
	SetPlan(ctx context.Context, userID string, plan domain.Plan) (*domain.Profile, error)

	// Subscribe makes the user pro and remembers its payment customer.
	Subscribe(ctx context.Context, userID, customerID string) error

	// Unsubscribe makes the user of the payment customer free.
	//
	// Returns ErrMissing when no user has the customer.
	Unsubscribe(ctx context.Context, customerID string) error

	// Users lists every profile with activity counts, newest first.
	Users(ctx context.Context) ([]domain.UserDigest, error)

	// Stats summarizes the service. Generations are counted since the time.
	Stats(ctx context.Context, since time.Time) (domain.Stats, error)
}
