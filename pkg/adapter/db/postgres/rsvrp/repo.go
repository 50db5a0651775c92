// Package rsvrp is the PostgreSQL implementation of the reservations
// repository. Its mutating operations and the locking overlap scan are
// transaction-only, matching the repo.ReservationsTxQueryer interface.
package rsvrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/adapter/db/postgres"
	"github.com/hjalali/garageweb/pkg/core/model"
	"github.com/hjalali/garageweb/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (rsvs *Repo) Conn(c repo.Conn) repo.ReservationsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) FindActiveByID(ctx context.Context, rsvID uuid.UUID) (*model.Reservation, error) {
	return FindActiveByID(ctx, cq.Conn, rsvID)
}

func (cq connQueryer) ListActive(ctx context.Context) ([]model.Reservation, error) {
	return ListActive(ctx, cq.Conn)
}

type txQueryer struct {
	*postgres.Tx
}

func (rsvs *Repo) Tx(tx repo.Tx) repo.ReservationsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) FindActiveByID(ctx context.Context, rsvID uuid.UUID) (*model.Reservation, error) {
	return FindActiveByID(ctx, tq.Tx, rsvID)
}

func (tq txQueryer) FindByID(ctx context.Context, rsvID uuid.UUID) (*model.Reservation, error) {
	return FindByID(ctx, tq.Tx, rsvID)
}

func (tq txQueryer) ListActive(ctx context.Context) ([]model.Reservation, error) {
	return ListActive(ctx, tq.Tx)
}

func (tq txQueryer) FindActiveOverlapping(
	ctx context.Context, garageID uuid.UUID,
	from, to model.Date, exclude ...uuid.UUID,
) ([]model.Reservation, error) {
	return FindActiveOverlapping(ctx, tq.Tx, garageID, from, to, exclude...)
}

func (tq txQueryer) Create(ctx context.Context, rsv *model.Reservation) error {
	return Create(ctx, tq.Tx, rsv)
}

func (tq txQueryer) Update(ctx context.Context, rsv *model.Reservation) error {
	return Update(ctx, tq.Tx, rsv)
}

func (tq txQueryer) SoftDelete(ctx context.Context, rsvID uuid.UUID) error {
	return SoftDelete(ctx, tq.Tx, rsvID)
}
