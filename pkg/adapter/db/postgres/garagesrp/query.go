package garagesrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/adapter/db/postgres"
	"github.com/hjalali/garageweb/pkg/core/cerr"
	"github.com/hjalali/garageweb/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gGarage struct {
	GID            uuid.UUID `gorm:"primaryKey;type:uuid;column:gid"`
	Address        string
	NumberOfPlaces int
	AcceptsLPG     bool `gorm:"column:accepts_lpg"`
	Deleted        bool
}

func (gg *gGarage) TableName() string {
	return "garages"
}

func (gg *gGarage) Garage() *model.Garage {
	return &model.Garage{
		ID:             gg.GID,
		Address:        gg.Address,
		NumberOfPlaces: gg.NumberOfPlaces,
		AcceptsLPG:     gg.AcceptsLPG,
		Deleted:        gg.Deleted,
	}
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, garage *model.Garage) error {
	gdb := q.GORM(ctx)
	gdb = gdb.Create(&gGarage{
		GID:            garage.ID,
		Address:        garage.Address,
		NumberOfPlaces: garage.NumberOfPlaces,
		AcceptsLPG:     garage.AcceptsLPG,
	})
	if err := gdb.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

func FindActiveByID[Q postgres.Queryer](ctx context.Context, q Q, garageID uuid.UUID) (*model.Garage, error) {
	gdb := q.GORM(ctx)
	var gg []gGarage
	gdb = gdb.Where("gid=? AND NOT deleted", garageID).Limit(2).Find(&gg)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gg); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gg[0].Garage(), nil
}

// LockActiveByID loads an active garage with SELECT FOR UPDATE, so the
// caller transaction holds a write-exclusive lock on its row until it
// ends. The lock wait is bounded by setting lock_timeout locally in
// the transaction; an elapsed wait surfaces as SQLSTATE 55P03 and is
// reported as a transient failure.
func LockActiveByID(
	ctx context.Context, tx *postgres.Tx,
	garageID uuid.UUID, wait time.Duration,
) (*model.Garage, error) {
	ms := wait.Milliseconds()
	if ms < 1 {
		// lock_timeout = 0 disables the timeout instead of bounding it
		ms = 1
	}
	gdb := tx.GORM(ctx)
	// SET does not take bind parameters
	gdb = gdb.Exec(
		fmt.Sprintf("SET LOCAL lock_timeout = %d", ms),
	)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("setting lock_timeout: %w", err)
	}
	gdb = tx.GORM(ctx)
	var gg []gGarage
	gdb = gdb.Clauses(clause.Locking{Strength: "UPDATE"}).Where(
		"gid=? AND NOT deleted", garageID,
	).Limit(2).Find(&gg)
	if err := gdb.Error; err != nil {
		if postgres.IsLockUnavailable(err) {
			return nil, cerr.Unavailable(
				fmt.Errorf("garage row is locked: %w", err),
			)
		}
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gg); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gg[0].Garage(), nil
}

func ListActive[Q postgres.Queryer](ctx context.Context, q Q) ([]model.Garage, error) {
	gdb := q.GORM(ctx)
	var gg []gGarage
	gdb = gdb.Where("NOT deleted").Find(&gg)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	garages := make([]model.Garage, len(gg))
	for i := range gg {
		garages[i] = *gg[i].Garage()
	}
	return garages, nil
}

func Update[Q postgres.Queryer](ctx context.Context, q Q, garage *model.Garage) (*model.Garage, error) {
	gdb := q.GORM(ctx)
	var gg []gGarage
	gdb = gdb.Model(&gg).Clauses(clause.Returning{}).Select(
		"address", "number_of_places", "accepts_lpg", "deleted",
	).Where(
		"gid=?", garage.ID,
	).Updates(gGarage{
		Address:        garage.Address,
		NumberOfPlaces: garage.NumberOfPlaces,
		AcceptsLPG:     garage.AcceptsLPG,
		Deleted:        false,
	})
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gg); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gg[0].Garage(), nil
}

func SoftDelete[Q postgres.Queryer](ctx context.Context, q Q, garageID uuid.UUID) error {
	gdb := q.GORM(ctx)
	gdb = gdb.Model(&gGarage{}).Where(
		"gid=? AND NOT deleted", garageID,
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
