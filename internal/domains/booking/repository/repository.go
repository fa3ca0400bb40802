package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"wisma/infras/otel"
	"wisma/infras/postgres"
	"wisma/internal/domains/booking/model"
	roomModel "wisma/internal/domains/room/model"
	"wisma/shared/constant"
	gDto "wisma/shared/dto"
	"wisma/shared/logger"
	gRepo "wisma/shared/repository"

	"github.com/lib/pq"
)

var (
	ErrRoomNotFound    = errors.New("room not found or inactive")
	ErrRoomUnavailable = errors.New("room is not available for the requested dates")
)

// overlapQuery is the single source of truth for booking conflicts. Two
// half-open ranges [check_in, check_out) collide when each starts before
// the other ends. Cancelled bookings never block a room.
var overlapQuery = fmt.Sprintf(
	"SELECT EXISTS(SELECT 1 FROM %s WHERE room_id = $1 AND status <> '%s' AND check_in < $3 AND check_out > $2)",
	model.TableName,
	constant.BookingStatusCancelled,
)

var lockRoomQuery = fmt.Sprintf(
	"SELECT price FROM %s WHERE id = $1 AND active = TRUE FOR UPDATE",
	roomModel.TableName,
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	CreateWithLock(ctx context.Context, booking model.Booking) (model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// HasOverlap reports whether any non-cancelled booking collides with the
// requested stay. Read-path counterpart of the check inside CreateWithLock.
func (repo *repositoryImpl) HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time) (overlap bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasOverlap")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, overlapQuery)

	err = repo.db.Read.GetContext(ctx, &overlap, overlapQuery, roomID, checkIn, checkOut)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check booking overlap (%s): %w", model.EntityName, err)
	}

	return overlap, nil
}

// CreateWithLock inserts a booking inside one transaction on the write
// connection. The room row is locked first so concurrent requests for the
// same room serialize, then the overlap check and insert run against a
// stable snapshot. The exclusion constraint on bookings backstops the check,
// so a 23P01 from a racing transaction surfaces as ErrRoomUnavailable.
func (repo *repositoryImpl) CreateWithLock(ctx context.Context, booking model.Booking) (res model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateWithLock")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	scope.SetAttribute(constant.OtelQueryAttributeKey, lockRoomQuery)

	var roomPrice float64

	err = tx.GetContext(ctx, &roomPrice, lockRoomQuery, booking.RoomID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrRoomNotFound
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to lock room (%s): %w", model.EntityName, err)
	}

	var overlap bool

	err = tx.GetContext(ctx, &overlap, overlapQuery, booking.RoomID, booking.CheckIn, booking.CheckOut)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to check booking overlap (%s): %w", model.EntityName, err)
	}

	if overlap {
		return res, ErrRoomUnavailable
	}

	nights := int(math.Ceil(booking.CheckOut.Sub(booking.CheckIn).Hours() / constant.HoursPerNight))
	booking.TotalPrice = float64(nights) * roomPrice

	if err = repo.InsertTx(ctx, tx, booking); err != nil {
		if IsExclusionViolation(err) {
			err = ErrRoomUnavailable
		}

		return res, err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		if IsExclusionViolation(err) {
			return res, ErrRoomUnavailable
		}

		return res, fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return booking, nil
}

// IsExclusionViolation reports whether err carries a Postgres 23P01, the
// bookings_no_overlap constraint rejecting a write. Status updates that
// revive a cancelled booking can trip it just like inserts do.
func IsExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constant.PqErrorCodeExclusionViolation
	}

	return false
}
