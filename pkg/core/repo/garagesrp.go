package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/core/model"
)

type GaragesConnQueryer interface {
	GaragesQueryer
}

// GaragesTxQueryer adds the row-locking lookup which is only
// meaningful within a transaction, since the acquired lock is held
// until that transaction commits or rolls back.
type GaragesTxQueryer interface {
	GaragesQueryer

	// LockActiveByID loads an active garage while acquiring a
	// write-exclusive lock on its row, waiting at most the wait
	// duration for the lock. It serializes reservation admissions per
	// garage: a concurrent admission against the same garage blocks
	// here until the first transaction completes. An elapsed wait is
	// reported as a transient (retryable) error.
	LockActiveByID(
		ctx context.Context, garageID uuid.UUID, wait time.Duration,
	) (*model.Garage, error)
}

// GaragesQueryer lists the garages table operations which may run on
// either a connection or a transaction, with the same soft-delete
// visibility rules as CarsQueryer.
type GaragesQueryer interface {
	Create(ctx context.Context, garage *model.Garage) error
	FindActiveByID(ctx context.Context, garageID uuid.UUID) (*model.Garage, error)
	ListActive(ctx context.Context) ([]model.Garage, error)
	Update(ctx context.Context, garage *model.Garage) (*model.Garage, error)
	SoftDelete(ctx context.Context, garageID uuid.UUID) error
}

type Garages interface {
	Conn(Conn) GaragesConnQueryer
	Tx(Tx) GaragesTxQueryer
}
