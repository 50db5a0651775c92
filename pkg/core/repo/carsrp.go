package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/core/model"
)

type CarsConnQueryer interface {
	CarsQueryer
}

type CarsTxQueryer interface {
	CarsQueryer
}

// CarsQueryer lists the cars table operations which may run on either
// a connection or a transaction. All read paths only observe active
// (deleted=false) rows; soft-deleted rows stay in storage.
type CarsQueryer interface {
	// Create inserts the car row as given, including its ID.
	Create(ctx context.Context, car *model.Car) error
	FindActiveByID(ctx context.Context, carID uuid.UUID) (*model.Car, error)
	ListActive(ctx context.Context) ([]model.Car, error)
	// Update replaces brand, model, price, and fuel type of the car.ID
	// row, resetting its deleted flag to false. The updated row is
	// returned, or a not-found error if car.ID does not exist.
	Update(ctx context.Context, car *model.Car) (*model.Car, error)
	// SoftDelete marks an active car as deleted, keeping the row.
	SoftDelete(ctx context.Context, carID uuid.UUID) error
}

type Cars interface {
	Conn(Conn) CarsConnQueryer
	Tx(Tx) CarsTxQueryer
}
