// Package garagesrp is the PostgreSQL implementation of the garages
// repository, including the row-locking lookup which serializes
// reservation admissions per garage.
package garagesrp

import (
	"context"
	"time"

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

func (grgs *Repo) Conn(c repo.Conn) repo.GaragesConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, garage *model.Garage) error {
	return Create(ctx, cq.Conn, garage)
}

func (cq connQueryer) FindActiveByID(ctx context.Context, garageID uuid.UUID) (*model.Garage, error) {
	return FindActiveByID(ctx, cq.Conn, garageID)
}

func (cq connQueryer) ListActive(ctx context.Context) ([]model.Garage, error) {
	return ListActive(ctx, cq.Conn)
}

func (cq connQueryer) Update(ctx context.Context, garage *model.Garage) (*model.Garage, error) {
	return Update(ctx, cq.Conn, garage)
}

func (cq connQueryer) SoftDelete(ctx context.Context, garageID uuid.UUID) error {
	return SoftDelete(ctx, cq.Conn, garageID)
}

type txQueryer struct {
	*postgres.Tx
}

func (grgs *Repo) Tx(tx repo.Tx) repo.GaragesTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, garage *model.Garage) error {
	return Create(ctx, tq.Tx, garage)
}

func (tq txQueryer) FindActiveByID(ctx context.Context, garageID uuid.UUID) (*model.Garage, error) {
	return FindActiveByID(ctx, tq.Tx, garageID)
}

func (tq txQueryer) LockActiveByID(
	ctx context.Context, garageID uuid.UUID, wait time.Duration,
) (*model.Garage, error) {
	return LockActiveByID(ctx, tq.Tx, garageID, wait)
}

func (tq txQueryer) ListActive(ctx context.Context) ([]model.Garage, error) {
	return ListActive(ctx, tq.Tx)
}

func (tq txQueryer) Update(ctx context.Context, garage *model.Garage) (*model.Garage, error) {
	return Update(ctx, tq.Tx, garage)
}

func (tq txQueryer) SoftDelete(ctx context.Context, garageID uuid.UUID) error {
	return SoftDelete(ctx, tq.Tx, garageID)
}
