package carsrp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/adapter/db/postgres"
	"github.com/hjalali/garageweb/pkg/core/cerr"
	"github.com/hjalali/garageweb/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gCar struct {
	CID      uuid.UUID `gorm:"primaryKey;type:uuid;column:cid"`
	Brand    string
	Model    string
	Price    float64
	FuelType string
	Deleted  bool
}

func (gc *gCar) TableName() string {
	return "cars"
}

func (gc *gCar) Car() *model.Car {
	return &model.Car{
		ID:       gc.CID,
		Brand:    gc.Brand,
		Model:    gc.Model,
		Price:    gc.Price,
		FuelType: gc.FuelType,
		Deleted:  gc.Deleted,
	}
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, car *model.Car) error {
	gdb := q.GORM(ctx)
	gdb = gdb.Create(&gCar{
		CID:      car.ID,
		Brand:    car.Brand,
		Model:    car.Model,
		Price:    car.Price,
		FuelType: car.FuelType,
	})
	if err := gdb.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

func FindActiveByID[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (*model.Car, error) {
	gdb := q.GORM(ctx)
	var gc []gCar
	gdb = gdb.Where("cid=? AND NOT deleted", carID).Limit(2).Find(&gc)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gc); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gc[0].Car(), nil
}

func ListActive[Q postgres.Queryer](ctx context.Context, q Q) ([]model.Car, error) {
	gdb := q.GORM(ctx)
	var gc []gCar
	gdb = gdb.Where("NOT deleted").Find(&gc)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	cars := make([]model.Car, len(gc))
	for i := range gc {
		cars[i] = *gc[i].Car()
	}
	return cars, nil
}

// Update replaces all attributes of the car.ID row with the car field
// values, also resetting its deleted flag (so updating a soft-deleted
// car restores it).
func Update[Q postgres.Queryer](ctx context.Context, q Q, car *model.Car) (*model.Car, error) {
	gdb := q.GORM(ctx)
	var gc []gCar
	gdb = gdb.Model(&gc).Clauses(clause.Returning{}).Select(
		"brand", "model", "price", "fuel_type", "deleted",
	).Where(
		"cid=?", car.ID,
	).Updates(gCar{
		Brand:    car.Brand,
		Model:    car.Model,
		Price:    car.Price,
		FuelType: car.FuelType,
		Deleted:  false,
	})
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gc); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gc[0].Car(), nil
}

func SoftDelete[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) error {
	gdb := q.GORM(ctx)
	gdb = gdb.Model(&gCar{}).Where(
		"cid=? AND NOT deleted", carID,
	).Update("deleted", true)
	if err := gdb.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if n := gdb.RowsAffected; n != 1 {
		return cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return nil
}
