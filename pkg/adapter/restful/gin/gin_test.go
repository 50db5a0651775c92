// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hjalali/garageweb/internal/test/dbcontainer"
	"github.com/hjalali/garageweb/pkg/adapter/config"
	"github.com/hjalali/garageweb/pkg/adapter/config/settings"
	"github.com/hjalali/garageweb/pkg/adapter/db/postgres"
	"github.com/hjalali/garageweb/pkg/adapter/restful/gin"
	"github.com/hjalali/garageweb/pkg/adapter/restful/gin/routes"
	"github.com/hjalali/garageweb/pkg/core/model"
	"github.com/hjalali/garageweb/pkg/core/repo"
	"github.com/stretchr/testify/suite"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Gin  *gin.Engine
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	sql, err := os.ReadFile("testdata/schema.sql")
	igts.Require().NoError(err, "failed to read schema.sql file")
	err = igts.Pool.Conn(
		igts.Ctx, func(ctx context.Context, c repo.Conn) error {
			_, err := c.Exec(ctx, string(sql))
			return err
		},
	)
	igts.Require().NoError(err, "failed to create schema contents")

	igts.Gin = gin.New(gin.Logger(), gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	wait := settings.Duration(2 * time.Second)
	err = routes.Register(igts.Gin, igts.Pool, &config.Config{
		Usecases: config.Usecases{
			Reservations: config.Reservations{
				LockWait: &wait,
			},
		},
	})
	igts.Require().NoError(err, "failed to register Gin routes")
}

func jsonBody(igts *IntegrationGinTestSuite, v any) io.Reader {
	b, err := json.Marshal(v)
	igts.Require().NoError(err, "cannot marshal request body")
	return bytes.NewReader(b)
}

func (igts *IntegrationGinTestSuite) sendReqRecvResp(
	w *httptest.ResponseRecorder, req *http.Request, res any,
) {
	req.Header.Add("Content-Type", "application/json")
	igts.Gin.ServeHTTP(w, req)
	if res == nil {
		return
	}
	b := w.Body.Bytes()
	igts.NoError(json.Unmarshal(b, res), "body is not json")
}

func (igts *IntegrationGinTestSuite) request(
	method, path string, body, res any,
) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		r = jsonBody(igts, body)
	}
	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, "/api/gwweb/v1"+path, r)
	igts.Require().NoError(err, "cannot create %s request", method)
	igts.sendReqRecvResp(w, req, res)
	return w
}

func (igts *IntegrationGinTestSuite) createCar(
	brand, mdl string, price float64, fuelType string,
) *model.Car {
	res := &model.Car{}
	w := igts.request(http.MethodPost, "/cars", map[string]any{
		"brand":    brand,
		"model":    mdl,
		"price":    price,
		"fuelType": fuelType,
	}, res)
	igts.Require().Equal(201, w.Code, "cannot create car")
	return res
}

func (igts *IntegrationGinTestSuite) createGarage(
	address string, places int, acceptsLPG bool,
) *model.Garage {
	res := &model.Garage{}
	w := igts.request(http.MethodPost, "/garages", map[string]any{
		"address":        address,
		"numberOfPlaces": places,
		"acceptsLPG":     acceptsLPG,
	}, res)
	igts.Require().Equal(201, w.Code, "cannot create garage")
	return res
}

func rsvBody(from, to string, carID, garageID uuid.UUID) map[string]any {
	return map[string]any{
		"fromDate": from,
		"toDate":   to,
		"carId":    carID.String(),
		"garageId": garageID.String(),
	}
}

func (igts *IntegrationGinTestSuite) TestCarCRUD() {
	car := igts.createCar("Toyota", "Avensis", 28000, "petrol")
	igts.NotEqual(uuid.Nil, car.ID)
	igts.Equal("Toyota", car.Brand)
	igts.False(car.Deleted)

	got := &model.Car{}
	w := igts.request(
		http.MethodGet, "/cars/"+car.ID.String(), nil, got,
	)
	igts.Equal(200, w.Code)
	igts.Equal(car, got)

	var all []model.Car
	w = igts.request(http.MethodGet, "/cars", nil, &all)
	igts.Equal(200, w.Code)
	igts.Contains(all, *car)

	updated := &model.Car{}
	w = igts.request(
		http.MethodPut, "/cars/"+car.ID.String(), map[string]any{
			"brand":    "Toyota",
			"model":    "Corolla",
			"price":    24000.5,
			"fuelType": "hybrid",
		}, updated,
	)
	igts.Equal(200, w.Code)
	igts.Equal(car.ID, updated.ID)
	igts.Equal("Corolla", updated.Model)
	igts.Equal(24000.5, updated.Price)

	w = igts.request(
		http.MethodDelete, "/cars/"+car.ID.String(), nil, nil,
	)
	igts.Equal(204, w.Code)
	igts.Empty(w.Body.Bytes(), "DELETE must have no body")

	res := &struct{ Detail string }{}
	w = igts.request(
		http.MethodGet, "/cars/"+car.ID.String(), nil, res,
	)
	igts.Equal(404, w.Code)
	igts.Equal("expected one row, but got 0", res.Detail)

	// updating a soft-deleted car restores it
	w = igts.request(
		http.MethodPut, "/cars/"+car.ID.String(), map[string]any{
			"brand":    "Toyota",
			"model":    "Corolla",
			"price":    24000.5,
			"fuelType": "hybrid",
		}, updated,
	)
	igts.Equal(200, w.Code)
	igts.False(updated.Deleted)
}

func (igts *IntegrationGinTestSuite) TestCarBadRequest() {
	for _, tc := range []struct {
		name  string
		body  map[string]any
		field string
	}{
		{
			name:  "missing brand",
			body:  map[string]any{"model": "X", "price": 1, "fuelType": "petrol"},
			field: "Brand",
		},
		{
			name: "non-positive price",
			body: map[string]any{
				"brand": "A", "model": "X",
				"price": -5, "fuelType": "petrol",
			},
			field: "Price",
		},
	} {
		igts.Run(tc.name, func() {
			res := map[string][]string{}
			w := igts.request(http.MethodPost, "/cars", tc.body, &res)
			igts.Equal(400, w.Code)
			igts.Contains(res, tc.field)
		})
	}

	res := map[string][]string{}
	w := igts.request(http.MethodGet, "/cars/not-a-uuid", nil, &res)
	igts.Equal(400, w.Code)
	igts.Contains(res, "cid")
}

func (igts *IntegrationGinTestSuite) TestGarageCRUD() {
	garage := igts.createGarage("1 Main St", 10, true)
	igts.NotEqual(uuid.Nil, garage.ID)
	igts.True(garage.AcceptsLPG)

	got := &model.Garage{}
	w := igts.request(
		http.MethodGet, "/garages/"+garage.ID.String(), nil, got,
	)
	igts.Equal(200, w.Code)
	igts.Equal(garage, got)

	updated := &model.Garage{}
	w = igts.request(
		http.MethodPut, "/garages/"+garage.ID.String(), map[string]any{
			"address":        "2 Side St",
			"numberOfPlaces": 4,
			"acceptsLPG":     false,
		}, updated,
	)
	igts.Equal(200, w.Code)
	igts.Equal("2 Side St", updated.Address)
	igts.False(updated.AcceptsLPG)

	w = igts.request(
		http.MethodDelete, "/garages/"+garage.ID.String(), nil, nil,
	)
	igts.Equal(204, w.Code)
	w = igts.request(
		http.MethodGet, "/garages/"+garage.ID.String(), nil,
		&struct{ Detail string }{},
	)
	igts.Equal(404, w.Code)
}

func (igts *IntegrationGinTestSuite) TestReservationBadRequest() {
	car := igts.createCar("Dacia", "Logan", 15000, "petrol")
	garage := igts.createGarage("3 Forest Rd", 5, false)
	for _, tc := range []struct {
		name  string
		body  map[string]any
		field string
	}{
		{
			name: "missing dates",
			body: map[string]any{
				"carId":    car.ID.String(),
				"garageId": garage.ID.String(),
			},
			field: "FromDate",
		},
		{
			name: "time instead of day",
			body: rsvBody(
				"2024-03-01T10:00:00Z", "2024-03-02",
				car.ID, garage.ID,
			),
			field: "FromDate",
		},
		{
			name: "malformed car id",
			body: map[string]any{
				"fromDate": "2024-03-01",
				"toDate":   "2024-03-02",
				"carId":    "not-a-uuid",
				"garageId": garage.ID.String(),
			},
			field: "CarID",
		},
	} {
		igts.Run(tc.name, func() {
			res := map[string][]string{}
			w := igts.request(
				http.MethodPost, "/reservations", tc.body, &res,
			)
			igts.Equal(400, w.Code)
			igts.Contains(res, tc.field)
		})
	}

	igts.Run("inverted range", func() {
		res := &struct{ Detail string }{}
		w := igts.request(
			http.MethodPost, "/reservations",
			rsvBody("2024-03-05", "2024-03-01", car.ID, garage.ID),
			res,
		)
		igts.Equal(400, w.Code)
		igts.Equal("fromDate is after toDate", res.Detail)
	})
}

func (igts *IntegrationGinTestSuite) TestReservationAdmission() {
	car := igts.createCar("Ford", "Focus", 21000, "diesel")
	garage := igts.createGarage("4 Hill St", 5, false)

	first := &model.Reservation{}
	w := igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-01-10", "2024-01-12", car.ID, garage.ID),
		first,
	)
	igts.Require().Equal(201, w.Code)
	igts.Equal(car.ID, first.CarID)
	igts.Equal(garage.ID, first.GarageID)
	igts.Equal("2024-01-10", first.From.String())

	res := &struct{ Detail string }{}
	w = igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-01-11", "2024-01-13", car.ID, garage.ID),
		res,
	)
	igts.Equal(409, w.Code)
	igts.Equal("there is no free place for these dates", res.Detail)

	// bounds are inclusive: one shared day still conflicts
	w = igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-01-12", "2024-01-14", car.ID, garage.ID),
		res,
	)
	igts.Equal(409, w.Code)

	// a disjoint range is admitted
	w = igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-01-13", "2024-01-15", car.ID, garage.ID),
		&model.Reservation{},
	)
	igts.Equal(201, w.Code)

	// another garage does not share the serialization scope
	other := igts.createGarage("5 Lake St", 5, false)
	w = igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-01-11", "2024-01-13", car.ID, other.ID),
		&model.Reservation{},
	)
	igts.Equal(201, w.Code)
}

func (igts *IntegrationGinTestSuite) TestReservationFuelType() {
	lpgCar := igts.createCar("Dacia", "Duster", 18000, "LPG")
	strict := igts.createGarage("6 River St", 5, false)
	friendly := igts.createGarage("7 River St", 5, true)

	res := &struct{ Detail string }{}
	w := igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-02-01", "2024-02-03", lpgCar.ID, strict.ID),
		res,
	)
	igts.Equal(409, w.Code)
	igts.Equal("LPG is not allowed here", res.Detail)

	w = igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-02-01", "2024-02-03", lpgCar.ID, friendly.ID),
		&model.Reservation{},
	)
	igts.Equal(201, w.Code)
}

func (igts *IntegrationGinTestSuite) TestReservationNotFound() {
	car := igts.createCar("Opel", "Astra", 19000, "petrol")
	garage := igts.createGarage("8 Plain St", 5, false)

	res := &struct{ Detail string }{}
	w := igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-02-10", "2024-02-12", uuid.New(), garage.ID),
		res,
	)
	igts.Equal(404, w.Code)

	w = igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-02-10", "2024-02-12", car.ID, uuid.New()),
		res,
	)
	igts.Equal(404, w.Code)
}

func (igts *IntegrationGinTestSuite) TestReservationDeleteFreesRange() {
	car := igts.createCar("Seat", "Ibiza", 17000, "petrol")
	garage := igts.createGarage("9 Shore St", 5, false)

	first := &model.Reservation{}
	w := igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-04-01", "2024-04-05", car.ID, garage.ID),
		first,
	)
	igts.Require().Equal(201, w.Code)

	w = igts.request(
		http.MethodDelete, "/reservations/"+first.ID.String(), nil, nil,
	)
	igts.Equal(204, w.Code)

	w = igts.request(
		http.MethodGet, "/reservations/"+first.ID.String(), nil,
		&struct{ Detail string }{},
	)
	igts.Equal(404, w.Code)

	// the freed range may be booked again
	second := &model.Reservation{}
	w = igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-04-03", "2024-04-07", car.ID, garage.ID),
		second,
	)
	igts.Equal(201, w.Code)
}

func (igts *IntegrationGinTestSuite) TestReservationUpdate() {
	car := igts.createCar("Skoda", "Octavia", 23000, "petrol")
	garage := igts.createGarage("10 Park St", 5, false)

	first := &model.Reservation{}
	w := igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-05-01", "2024-05-03", car.ID, garage.ID),
		first,
	)
	igts.Require().Equal(201, w.Code)

	// a shift overlapping its own old range is not a conflict
	updated := &model.Reservation{}
	w = igts.request(
		http.MethodPut, "/reservations/"+first.ID.String(),
		rsvBody("2024-05-02", "2024-05-04", car.ID, garage.ID),
		updated,
	)
	igts.Equal(200, w.Code)
	igts.Equal(first.ID, updated.ID)
	igts.Equal("2024-05-02", updated.From.String())

	second := &model.Reservation{}
	w = igts.request(
		http.MethodPost, "/reservations",
		rsvBody("2024-05-10", "2024-05-12", car.ID, garage.ID),
		second,
	)
	igts.Require().Equal(201, w.Code)

	res := &struct{ Detail string }{}
	w = igts.request(
		http.MethodPut, "/reservations/"+second.ID.String(),
		rsvBody("2024-05-03", "2024-05-05", car.ID, garage.ID),
		res,
	)
	igts.Equal(409, w.Code)
}

// TestConcurrentAdmissions races two identical booking requests; the
// garage row lock must admit exactly one of them.
func (igts *IntegrationGinTestSuite) TestConcurrentAdmissions() {
	car := igts.createCar("Fiat", "Panda", 12000, "petrol")
	garage := igts.createGarage("11 Race St", 5, false)

	const n = 2
	codes := make([]int, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			b, err := json.Marshal(rsvBody(
				"2024-06-01", "2024-06-03", car.ID, garage.ID,
			))
			if !igts.NoError(err) {
				return
			}
			w := httptest.NewRecorder()
			req, err := http.NewRequest(
				http.MethodPost, "/api/gwweb/v1/reservations",
				bytes.NewReader(b),
			)
			if !igts.NoError(err) {
				return
			}
			req.Header.Add("Content-Type", "application/json")
			igts.Gin.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()
	igts.ElementsMatch([]int{201, 409}, codes)
}

// TestReservationLockTimeout books against a garage whose row is held
// FOR UPDATE by another transaction. The bounded lock wait must elapse
// and surface as a transient 503, not block or degrade into a 500.
func (igts *IntegrationGinTestSuite) TestReservationLockTimeout() {
	car := igts.createCar("Renault", "Clio", 16000, "petrol")
	garage := igts.createGarage("12 Gate St", 5, false)

	// a dedicated engine with a short wait keeps this test fast
	wait := settings.Duration(50 * time.Millisecond)
	e := gin.New()
	err := routes.Register(e, igts.Pool, &config.Config{
		Usecases: config.Usecases{
			Reservations: config.Reservations{
				LockWait: &wait,
			},
		},
	})
	igts.Require().NoError(err, "failed to register Gin routes")

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- igts.Pool.Conn(
			igts.Ctx, func(ctx context.Context, c repo.Conn) error {
				return c.Tx(
					ctx, func(ctx context.Context, tx repo.Tx) error {
						_, err := tx.Exec(
							ctx,
							"SELECT gid FROM garages"+
								" WHERE gid=$1 FOR UPDATE",
							garage.ID,
						)
						if err != nil {
							return err
						}
						close(locked)
						<-release
						return nil
					},
				)
			},
		)
	}()
	<-locked
	defer func() {
		close(release)
		igts.NoError(<-done, "cannot release the garage row lock")
	}()

	b, err := json.Marshal(rsvBody(
		"2024-07-01", "2024-07-03", car.ID, garage.ID,
	))
	igts.Require().NoError(err, "cannot marshal request body")
	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodPost, "/api/gwweb/v1/reservations",
		bytes.NewReader(b),
	)
	igts.Require().NoError(err, "cannot create POST request")
	req.Header.Add("Content-Type", "application/json")
	e.ServeHTTP(w, req)

	igts.Equal(503, w.Code)
	res := &struct{ Detail string }{}
	igts.NoError(json.Unmarshal(w.Body.Bytes(), res))
	igts.Contains(res.Detail, "garage row is locked")
}
