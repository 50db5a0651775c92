// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rsvuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/core/cerr"
	"github.com/hjalali/garageweb/pkg/core/model"
	"github.com/hjalali/garageweb/pkg/core/repo"
	"github.com/hjalali/garageweb/pkg/core/usecase/rsvuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory stand-in for the postgres adapter. Its
// Conn.Tx implementation runs each handler on a deep copy and only
// publishes the copy on success, so the no-partial-write behavior of
// a rolled back transaction is preserved.
type fakeStore struct {
	cars    map[uuid.UUID]model.Car
	garages map[uuid.UUID]model.Garage
	rsvs    []model.Reservation
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cars:    make(map[uuid.UUID]model.Car),
		garages: make(map[uuid.UUID]model.Garage),
	}
}

func (st *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range st.cars {
		c.cars[k] = v
	}
	for k, v := range st.garages {
		c.garages[k] = v
	}
	c.rsvs = append(c.rsvs, st.rsvs...)
	return c
}

type fakePool struct {
	st *fakeStore
}

func (p *fakePool) Conn(ctx context.Context, f repo.ConnHandler) error {
	return f(ctx, &fakeConn{st: p.st})
}

func (p *fakePool) Close() error {
	return nil
}

type fakeConn struct {
	st *fakeStore
}

func (c *fakeConn) IsConn() {}

func (c *fakeConn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("raw SQL is not supported by the fake store")
}

func (c *fakeConn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errors.New("raw SQL is not supported by the fake store")
}

func (c *fakeConn) Tx(ctx context.Context, f repo.TxHandler) error {
	draft := c.st.clone()
	if err := f(ctx, &fakeTx{st: draft}); err != nil {
		return err
	}
	*c.st = *draft
	return nil
}

type fakeTx struct {
	st *fakeStore
}

func (tx *fakeTx) IsTx() {}

func (tx *fakeTx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("raw SQL is not supported by the fake store")
}

func (tx *fakeTx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errors.New("raw SQL is not supported by the fake store")
}

func storeOf(q any) *fakeStore {
	switch v := q.(type) {
	case *fakeConn:
		return v.st
	case *fakeTx:
		return v.st
	default:
		panic("unexpected queryer type")
	}
}

type fakeCars struct{}

func (fakeCars) Conn(c repo.Conn) repo.CarsConnQueryer { return carsQ{storeOf(c)} }
func (fakeCars) Tx(tx repo.Tx) repo.CarsTxQueryer      { return carsQ{storeOf(tx)} }

type carsQ struct {
	st *fakeStore
}

func (q carsQ) Create(_ context.Context, car *model.Car) error {
	q.st.cars[car.ID] = *car
	return nil
}

func (q carsQ) FindActiveByID(_ context.Context, carID uuid.UUID) (*model.Car, error) {
	car, ok := q.st.cars[carID]
	if !ok || car.Deleted {
		return nil, cerr.NotFound(errors.New("expected one row, but got 0"))
	}
	return &car, nil
}

func (q carsQ) ListActive(context.Context) ([]model.Car, error) {
	var all []model.Car
	for _, car := range q.st.cars {
		if !car.Deleted {
			all = append(all, car)
		}
	}
	return all, nil
}

func (q carsQ) Update(_ context.Context, car *model.Car) (*model.Car, error) {
	if _, ok := q.st.cars[car.ID]; !ok {
		return nil, cerr.NotFound(errors.New("expected one row, but got 0"))
	}
	q.st.cars[car.ID] = *car
	return car, nil
}

func (q carsQ) SoftDelete(_ context.Context, carID uuid.UUID) error {
	car, ok := q.st.cars[carID]
	if !ok || car.Deleted {
		return cerr.NotFound(errors.New("expected one row, but got 0"))
	}
	car.Deleted = true
	q.st.cars[carID] = car
	return nil
}

type fakeGarages struct{}

func (fakeGarages) Conn(c repo.Conn) repo.GaragesConnQueryer { return garagesQ{storeOf(c)} }
func (fakeGarages) Tx(tx repo.Tx) repo.GaragesTxQueryer      { return garagesQ{storeOf(tx)} }

type garagesQ struct {
	st *fakeStore
}

func (q garagesQ) Create(_ context.Context, g *model.Garage) error {
	q.st.garages[g.ID] = *g
	return nil
}

func (q garagesQ) FindActiveByID(_ context.Context, garageID uuid.UUID) (*model.Garage, error) {
	g, ok := q.st.garages[garageID]
	if !ok || g.Deleted {
		return nil, cerr.NotFound(errors.New("expected one row, but got 0"))
	}
	return &g, nil
}

func (q garagesQ) LockActiveByID(
	ctx context.Context, garageID uuid.UUID, _ time.Duration,
) (*model.Garage, error) {
	// single-threaded fake, the lock itself has nothing to serialize
	return q.FindActiveByID(ctx, garageID)
}

func (q garagesQ) ListActive(context.Context) ([]model.Garage, error) {
	var all []model.Garage
	for _, g := range q.st.garages {
		if !g.Deleted {
			all = append(all, g)
		}
	}
	return all, nil
}

func (q garagesQ) Update(_ context.Context, g *model.Garage) (*model.Garage, error) {
	if _, ok := q.st.garages[g.ID]; !ok {
		return nil, cerr.NotFound(errors.New("expected one row, but got 0"))
	}
	q.st.garages[g.ID] = *g
	return g, nil
}

func (q garagesQ) SoftDelete(_ context.Context, garageID uuid.UUID) error {
	g, ok := q.st.garages[garageID]
	if !ok || g.Deleted {
		return cerr.NotFound(errors.New("expected one row, but got 0"))
	}
	g.Deleted = true
	q.st.garages[garageID] = g
	return nil
}

type fakeReservations struct{}

func (fakeReservations) Conn(c repo.Conn) repo.ReservationsConnQueryer { return rsvQ{storeOf(c)} }
func (fakeReservations) Tx(tx repo.Tx) repo.ReservationsTxQueryer      { return rsvQ{storeOf(tx)} }

type rsvQ struct {
	st *fakeStore
}

func (q rsvQ) FindActiveByID(_ context.Context, rsvID uuid.UUID) (*model.Reservation, error) {
	for _, r := range q.st.rsvs {
		if r.ID == rsvID && !r.Deleted {
			r := r
			return &r, nil
		}
	}
	return nil, cerr.NotFound(errors.New("expected one row, but got 0"))
}

func (q rsvQ) FindByID(_ context.Context, rsvID uuid.UUID) (*model.Reservation, error) {
	for _, r := range q.st.rsvs {
		if r.ID == rsvID {
			r := r
			return &r, nil
		}
	}
	return nil, cerr.NotFound(errors.New("expected one row, but got 0"))
}

func (q rsvQ) ListActive(context.Context) ([]model.Reservation, error) {
	var all []model.Reservation
	for _, r := range q.st.rsvs {
		if !r.Deleted {
			all = append(all, r)
		}
	}
	return all, nil
}

func (q rsvQ) FindActiveOverlapping(
	_ context.Context, garageID uuid.UUID,
	from, to model.Date, exclude ...uuid.UUID,
) ([]model.Reservation, error) {
	var hits []model.Reservation
scan:
	for _, r := range q.st.rsvs {
		if r.Deleted || r.GarageID != garageID || !r.Overlaps(from, to) {
			continue
		}
		for _, x := range exclude {
			if r.ID == x {
				continue scan
			}
		}
		hits = append(hits, r)
	}
	return hits, nil
}

func (q rsvQ) Create(_ context.Context, rsv *model.Reservation) error {
	q.st.rsvs = append(q.st.rsvs, *rsv)
	return nil
}

func (q rsvQ) Update(_ context.Context, rsv *model.Reservation) error {
	for i, r := range q.st.rsvs {
		if r.ID == rsv.ID {
			q.st.rsvs[i] = *rsv
			return nil
		}
	}
	return cerr.NotFound(errors.New("expected one row, but got 0"))
}

func (q rsvQ) SoftDelete(_ context.Context, rsvID uuid.UUID) error {
	for i, r := range q.st.rsvs {
		if r.ID == rsvID && !r.Deleted {
			q.st.rsvs[i].Deleted = true
			return nil
		}
	}
	return cerr.NotFound(errors.New("expected one row, but got 0"))
}

type fixture struct {
	st *fakeStore
	uc *rsvuc.UseCase

	petrolCar uuid.UUID
	lpgCar    uuid.UUID
	garage    uuid.UUID // accepts LPG
	strictGrg uuid.UUID // does not accept LPG
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		st:        newFakeStore(),
		petrolCar: uuid.New(),
		lpgCar:    uuid.New(),
		garage:    uuid.New(),
		strictGrg: uuid.New(),
	}
	f.st.cars[f.petrolCar] = model.Car{
		ID: f.petrolCar, Brand: "Toyota", Model: "Avensis",
		Price: 25000, FuelType: "petrol",
	}
	f.st.cars[f.lpgCar] = model.Car{
		ID: f.lpgCar, Brand: "Dacia", Model: "Duster",
		Price: 18000, FuelType: model.FuelTypeLPG,
	}
	f.st.garages[f.garage] = model.Garage{
		ID: f.garage, Address: "1 Main St",
		NumberOfPlaces: 10, AcceptsLPG: true,
	}
	f.st.garages[f.strictGrg] = model.Garage{
		ID: f.strictGrg, Address: "2 Side St",
		NumberOfPlaces: 3, AcceptsLPG: false,
	}
	uc, err := rsvuc.New(
		&fakePool{st: f.st},
		fakeReservations{}, fakeCars{}, fakeGarages{},
		rsvuc.WithLockWait(time.Second),
	)
	require.NoError(t, err, "cannot instantiate the use case")
	f.uc = uc
	return f
}

func date(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func cmd(f *fixture, from, to string) rsvuc.Command {
	return rsvuc.Command{
		From: date(from), To: date(to),
		CarID: f.petrolCar, GarageID: f.garage,
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce, "expected a cerr.Error")
	assert.Equal(t, status, ce.HTTPStatusCode)
}

// assertNoActiveOverlap checks the central invariant: active
// reservations of one garage have pairwise disjoint intervals.
func assertNoActiveOverlap(t *testing.T, st *fakeStore) {
	t.Helper()
	for i, a := range st.rsvs {
		for _, b := range st.rsvs[i+1:] {
			if a.Deleted || b.Deleted || a.GarageID != b.GarageID {
				continue
			}
			assert.False(
				t, a.Overlaps(b.From, b.To),
				"active reservations %s and %s overlap", a.ID, b.ID,
			)
		}
	}
}

func TestCreateRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := cmd(f, "2024-01-10", "2024-01-12")
	created, err := f.uc.Create(ctx, c)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID, "id must be assigned")
	assert.True(t, created.From.Equal(c.From))
	assert.True(t, created.To.Equal(c.To))
	assert.Equal(t, c.CarID, created.CarID)
	assert.Equal(t, c.GarageID, created.GarageID)
	assert.False(t, created.Deleted)

	got, err := f.uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateGarageNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for name, garageID := range map[string]uuid.UUID{
		"missing": uuid.New(),
		"deleted": f.strictGrg,
	} {
		t.Run(name, func(t *testing.T) {
			if name == "deleted" {
				g := f.st.garages[garageID]
				g.Deleted = true
				f.st.garages[garageID] = g
			}
			c := cmd(f, "2024-01-10", "2024-01-12")
			c.GarageID = garageID
			c.CarID = uuid.New() // garage must be reported first
			_, err := f.uc.Create(ctx, c)
			assertStatus(t, err, http.StatusNotFound)
			assert.Contains(t, err.Error(), "garage")
		})
	}
}

func TestCreateCarNotFound(t *testing.T) {
	f := newFixture(t)
	c := cmd(f, "2024-01-10", "2024-01-12")
	c.CarID = uuid.New()
	_, err := f.uc.Create(context.Background(), c)
	assertStatus(t, err, http.StatusNotFound)
	assert.Contains(t, err.Error(), "car")
}

func TestCreateIncompatibleFuelType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// an overlapping reservation exists, but compatibility is checked
	// before the overlap scan
	_, err := f.uc.Create(ctx, rsvuc.Command{
		From: date("2024-01-10"), To: date("2024-01-12"),
		CarID: f.petrolCar, GarageID: f.strictGrg,
	})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, rsvuc.Command{
		From: date("2024-01-11"), To: date("2024-01-13"),
		CarID: f.lpgCar, GarageID: f.strictGrg,
	})
	assert.ErrorIs(t, err, model.ErrIncompatibleFuelType)
	assertStatus(t, err, http.StatusConflict)

	// the LPG friendly garage accepts the same car
	_, err = f.uc.Create(ctx, rsvuc.Command{
		From: date("2024-01-11"), To: date("2024-01-13"),
		CarID: f.lpgCar, GarageID: f.garage,
	})
	assert.NoError(t, err)
}

func TestCreateNoAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, cmd(f, "2024-01-10", "2024-01-12"))
	require.NoError(t, err)

	before := len(f.st.rsvs)
	_, err = f.uc.Create(ctx, cmd(f, "2024-01-11", "2024-01-13"))
	assert.ErrorIs(t, err, model.ErrNoAvailability)
	assertStatus(t, err, http.StatusConflict)
	assert.Len(t, f.st.rsvs, before, "no partial write on rejection")

	// inclusive bounds: sharing a single boundary day conflicts too
	_, err = f.uc.Create(ctx, cmd(f, "2024-01-12", "2024-01-14"))
	assert.ErrorIs(t, err, model.ErrNoAvailability)

	// a different garage is unaffected
	other := cmd(f, "2024-01-11", "2024-01-13")
	other.GarageID = f.strictGrg
	_, err = f.uc.Create(ctx, other)
	assert.NoError(t, err)

	// and so is a disjoint range on the same garage
	_, err = f.uc.Create(ctx, cmd(f, "2024-01-13", "2024-01-15"))
	assert.NoError(t, err)
	assertNoActiveOverlap(t, f.st)
}

func TestCreateInvalidDateRange(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(
		context.Background(), cmd(f, "2024-01-12", "2024-01-10"),
	)
	assert.ErrorIs(t, err, model.ErrInvalidDateRange)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestDeleteFreesTheRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.uc.Create(ctx, cmd(f, "2024-01-10", "2024-01-12"))
	require.NoError(t, err)

	_, err = f.uc.Create(ctx, cmd(f, "2024-01-11", "2024-01-13"))
	require.ErrorIs(t, err, model.ErrNoAvailability)

	require.NoError(t, f.uc.Delete(ctx, first.ID))

	_, err = f.uc.Get(ctx, first.ID)
	assertStatus(t, err, http.StatusNotFound)
	all, err := f.uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "deleted rows may not be listed")

	_, err = f.uc.Create(ctx, cmd(f, "2024-01-11", "2024-01-13"))
	assert.NoError(t, err, "a deleted reservation must not block")
	assertNoActiveOverlap(t, f.st)
}

func TestDeleteNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	err := f.uc.Delete(ctx, uuid.New())
	assertStatus(t, err, http.StatusNotFound)

	created, err := f.uc.Create(ctx, cmd(f, "2024-01-10", "2024-01-12"))
	require.NoError(t, err)
	require.NoError(t, f.uc.Delete(ctx, created.ID))
	err = f.uc.Delete(ctx, created.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestUpdateExcludesItselfFromOverlapScan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.uc.Create(ctx, cmd(f, "2024-01-10", "2024-01-12"))
	require.NoError(t, err)

	// shifting by one day overlaps the old range of the same row,
	// which must not count as a conflict
	updated, err := f.uc.Update(
		ctx, created.ID, cmd(f, "2024-01-11", "2024-01-13"),
	)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.From.Equal(date("2024-01-11")))
	assert.True(t, updated.To.Equal(date("2024-01-13")))
	assertNoActiveOverlap(t, f.st)
}

func TestUpdateDetectsOverlapWithOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, cmd(f, "2024-01-10", "2024-01-12"))
	require.NoError(t, err)
	second, err := f.uc.Create(ctx, cmd(f, "2024-01-20", "2024-01-22"))
	require.NoError(t, err)

	_, err = f.uc.Update(
		ctx, second.ID, cmd(f, "2024-01-12", "2024-01-14"),
	)
	assert.ErrorIs(t, err, model.ErrNoAvailability)

	got, err := f.uc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.True(
		t, got.From.Equal(date("2024-01-20")),
		"a rejected update must leave the row unchanged",
	)
	assertNoActiveOverlap(t, f.st)
}

func TestUpdateRevalidatesCompatibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.uc.Create(ctx, rsvuc.Command{
		From: date("2024-01-10"), To: date("2024-01-12"),
		CarID: f.lpgCar, GarageID: f.garage,
	})
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, created.ID, rsvuc.Command{
		From: date("2024-01-10"), To: date("2024-01-12"),
		CarID: f.lpgCar, GarageID: f.strictGrg,
	})
	assert.ErrorIs(t, err, model.ErrIncompatibleFuelType)
}

func TestUpdateOnSoftDeletedRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.uc.Create(ctx, cmd(f, "2024-01-10", "2024-01-12"))
	require.NoError(t, err)
	require.NoError(t, f.uc.Delete(ctx, created.ID))

	// the update path locates rows regardless of the deleted flag and
	// leaves that flag unchanged
	updated, err := f.uc.Update(
		ctx, created.ID, cmd(f, "2024-02-01", "2024-02-03"),
	)
	require.NoError(t, err)
	assert.True(t, updated.Deleted)
	_, err = f.uc.Get(ctx, created.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestUpdateNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Update(
		context.Background(), uuid.New(),
		cmd(f, "2024-01-10", "2024-01-12"),
	)
	assertStatus(t, err, http.StatusNotFound)
	assert.Contains(t, err.Error(), "reservation")
}

func TestSubMillisecondLockWaitIsRejected(t *testing.T) {
	// the row lock timeout has millisecond resolution; a shorter wait
	// would truncate to zero and disable the bound altogether
	_, err := rsvuc.New(
		&fakePool{st: newFakeStore()},
		fakeReservations{}, fakeCars{}, fakeGarages{},
		rsvuc.WithLockWait(500*time.Microsecond),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "less than 1ms")
}
