package visits

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a visit ID does not exist (or belongs to a
// different user).
var ErrNotFound = errors.New("visit not found")

// Repository persists visits. Implementations must treat (userID, visitID)
// as the lookup key so one user can never read or mutate another's plans.
type Repository interface {
	Create(ctx context.Context, v *Visit) error
	Get(ctx context.Context, userID, visitID string) (*Visit, error)
	List(ctx context.Context, userID string) ([]*Visit, error)
	Update(ctx context.Context, v *Visit) error
	Delete(ctx context.Context, userID, visitID string) error
}
