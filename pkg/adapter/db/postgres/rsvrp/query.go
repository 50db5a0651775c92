package rsvrp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/adapter/db/postgres"
	"github.com/hjalali/garageweb/pkg/core/cerr"
	"github.com/hjalali/garageweb/pkg/core/model"
	"gorm.io/gorm/clause"
)

// "from" and "to" are reserved words, hence the from_day and to_day
// column names.
type gReservation struct {
	RID      uuid.UUID  `gorm:"primaryKey;type:uuid;column:rid"`
	FromDay  model.Date `gorm:"column:from_day"`
	ToDay    model.Date `gorm:"column:to_day"`
	CarID    uuid.UUID  `gorm:"type:uuid;column:cid"`
	GarageID uuid.UUID  `gorm:"type:uuid;column:gid"`
	Deleted  bool
}

func (gr *gReservation) TableName() string {
	return "reservations"
}

func (gr *gReservation) Reservation() *model.Reservation {
	return &model.Reservation{
		ID:       gr.RID,
		From:     gr.FromDay,
		To:       gr.ToDay,
		CarID:    gr.CarID,
		GarageID: gr.GarageID,
		Deleted:  gr.Deleted,
	}
}

func FindActiveByID[Q postgres.Queryer](ctx context.Context, q Q, rsvID uuid.UUID) (*model.Reservation, error) {
	return findByID(ctx, q, rsvID, "rid=? AND NOT deleted")
}

// FindByID locates a reservation regardless of its deleted flag, for
// the update path which also services soft-deleted rows.
func FindByID[Q postgres.Queryer](ctx context.Context, q Q, rsvID uuid.UUID) (*model.Reservation, error) {
	return findByID(ctx, q, rsvID, "rid=?")
}

func findByID[Q postgres.Queryer](ctx context.Context, q Q, rsvID uuid.UUID, cond string) (*model.Reservation, error) {
	gdb := q.GORM(ctx)
	var gr []gReservation
	gdb = gdb.Where(cond, rsvID).Limit(2).Find(&gr)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gr); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gr[0].Reservation(), nil
}

func ListActive[Q postgres.Queryer](ctx context.Context, q Q) ([]model.Reservation, error) {
	gdb := q.GORM(ctx)
	var gr []gReservation
	gdb = gdb.Where("NOT deleted").Find(&gr)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	rsvs := make([]model.Reservation, len(gr))
	for i := range gr {
		rsvs[i] = *gr[i].Reservation()
	}
	return rsvs, nil
}

// FindActiveOverlapping returns the active reservations of the
// garageID garage whose inclusive day intervals share at least one day
// with [from, to], skipping the exclude ids. Matched rows are locked
// FOR UPDATE, so they cannot be deleted or moved by a concurrent
// transaction between this scan and the caller's own write. The caller
// must hold the garage row lock already; that lock is what prevents
// two admissions from both observing an empty result here.
func FindActiveOverlapping(
	ctx context.Context, tx *postgres.Tx, garageID uuid.UUID,
	from, to model.Date, exclude ...uuid.UUID,
) ([]model.Reservation, error) {
	gdb := tx.GORM(ctx)
	gdb = gdb.Clauses(clause.Locking{Strength: "UPDATE"}).Where(
		"gid=? AND NOT deleted AND from_day<=? AND ?<=to_day",
		garageID, to, from,
	)
	if len(exclude) > 0 {
		gdb = gdb.Where("rid NOT IN ?", exclude)
	}
	var gr []gReservation
	gdb = gdb.Find(&gr)
	if err := gdb.Error; err != nil {
		if postgres.IsLockUnavailable(err) {
			return nil, cerr.Unavailable(
				fmt.Errorf("reservation rows are locked: %w", err),
			)
		}
		return nil, fmt.Errorf("query: %w", err)
	}
	rsvs := make([]model.Reservation, len(gr))
	for i := range gr {
		rsvs[i] = *gr[i].Reservation()
	}
	return rsvs, nil
}

func Create(ctx context.Context, tx *postgres.Tx, rsv *model.Reservation) error {
	gdb := tx.GORM(ctx)
	gdb = gdb.Create(&gReservation{
		RID:      rsv.ID,
		FromDay:  rsv.From,
		ToDay:    rsv.To,
		CarID:    rsv.CarID,
		GarageID: rsv.GarageID,
	})
	if err := gdb.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

// Update rewrites the dates and references of the rsv.ID row, leaving
// its deleted flag as it is.
func Update(ctx context.Context, tx *postgres.Tx, rsv *model.Reservation) error {
	gdb := tx.GORM(ctx)
	gdb = gdb.Model(&gReservation{}).Select(
		"from_day", "to_day", "cid", "gid",
	).Where(
		"rid=?", rsv.ID,
	).Updates(gReservation{
		FromDay:  rsv.From,
		ToDay:    rsv.To,
		CarID:    rsv.CarID,
		GarageID: rsv.GarageID,
	})
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

func SoftDelete(ctx context.Context, tx *postgres.Tx, rsvID uuid.UUID) error {
	gdb := tx.GORM(ctx)
	gdb = gdb.Model(&gReservation{}).Where(
		"rid=? AND NOT deleted", rsvID,
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
