// Package carsrp is the PostgreSQL implementation of the cars
// repository. The CRUD queries themselves live in query.go as
// functions which are generic over the connection or transaction
// queryer type; this file adapts them to the repo.Cars interface.
package carsrp

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

func (cars *Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, car *model.Car) error {
	return Create(ctx, cq.Conn, car)
}

func (cq connQueryer) FindActiveByID(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return FindActiveByID(ctx, cq.Conn, carID)
}

func (cq connQueryer) ListActive(ctx context.Context) ([]model.Car, error) {
	return ListActive(ctx, cq.Conn)
}

func (cq connQueryer) Update(ctx context.Context, car *model.Car) (*model.Car, error) {
	return Update(ctx, cq.Conn, car)
}

func (cq connQueryer) SoftDelete(ctx context.Context, carID uuid.UUID) error {
	return SoftDelete(ctx, cq.Conn, carID)
}

type txQueryer struct {
	*postgres.Tx
}

func (cars *Repo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, car *model.Car) error {
	return Create(ctx, tq.Tx, car)
}

func (tq txQueryer) FindActiveByID(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return FindActiveByID(ctx, tq.Tx, carID)
}

func (tq txQueryer) ListActive(ctx context.Context) ([]model.Car, error) {
	return ListActive(ctx, tq.Tx)
}

func (tq txQueryer) Update(ctx context.Context, car *model.Car) (*model.Car, error) {
	return Update(ctx, tq.Tx, car)
}

func (tq txQueryer) SoftDelete(ctx context.Context, carID uuid.UUID) error {
	return SoftDelete(ctx, tq.Tx, carID)
}
