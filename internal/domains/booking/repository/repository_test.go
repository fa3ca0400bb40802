package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisma/infras/otel/mocks"
	"wisma/infras/postgres"
	"wisma/internal/domains/booking/model"
	"wisma/internal/domains/booking/repository"
	"wisma/shared/constant"
)

// overlapPredicate pins the half-open overlap rule: a stay ending exactly
// when another starts must not conflict, so the comparisons are strict.
const overlapPredicate = `SELECT EXISTS\(SELECT 1 FROM bookings WHERE room_id = \$1 AND status <> 'cancelled' AND check_in < \$3 AND check_out > \$2\)`

func newBookingRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	conn := &postgres.Connection{Read: db, Write: db}

	return repository.New(conn, mocks.NewOtel()), mock
}

func sampleBooking(roomID string, nights int) model.Booking {
	checkIn := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	return model.Booking{
		ID:            "9a6e0a53-7a6c-4a82-95a2-2e2b6dfdd0c2",
		RoomID:        roomID,
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, nights),
		Status:        constant.BookingStatusPending,
		ReserverName:  "Siti Rahma",
		ReserverPhone: "081234567890",
		Active:        true,
	}
}

func TestBookingRepository_HasOverlap(t *testing.T) {
	roomID := "5f6d41b6-9f1e-4f6a-8f0d-0a2ec0c6d0a1"
	checkIn := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 2)

	tests := []struct {
		name    string
		exists  bool
		wantRes bool
	}{
		{name: "overlapping booking exists", exists: true, wantRes: true},
		{name: "no overlapping booking", exists: false, wantRes: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newBookingRepository(t)

			mock.ExpectQuery(overlapPredicate).
				WithArgs(roomID, checkIn, checkOut).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			overlap, err := repo.HasOverlap(context.Background(), roomID, checkIn, checkOut)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantRes, overlap)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_CreateWithLock(t *testing.T) {
	roomID := "5f6d41b6-9f1e-4f6a-8f0d-0a2ec0c6d0a1"

	t.Run("successful creation prices the stay under the lock", func(t *testing.T) {
		repo, mock := newBookingRepository(t)
		booking := sampleBooking(roomID, 2)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT price FROM rooms").
			WithArgs(roomID).
			WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(500000.0))
		mock.ExpectQuery(overlapPredicate).
			WithArgs(roomID, booking.CheckIn, booking.CheckOut).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		res, err := repo.CreateWithLock(context.Background(), booking)

		assert.NoError(t, err)
		assert.Equal(t, float64(1000000), res.TotalPrice)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing or inactive room", func(t *testing.T) {
		repo, mock := newBookingRepository(t)
		booking := sampleBooking(roomID, 2)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT price FROM rooms").
			WithArgs(roomID).
			WillReturnRows(sqlmock.NewRows([]string{"price"}))
		mock.ExpectRollback()

		_, err := repo.CreateWithLock(context.Background(), booking)

		assert.ErrorIs(t, err, repository.ErrRoomNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("overlap detected inside the transaction", func(t *testing.T) {
		repo, mock := newBookingRepository(t)
		booking := sampleBooking(roomID, 2)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT price FROM rooms").
			WithArgs(roomID).
			WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(500000.0))
		mock.ExpectQuery(overlapPredicate).
			WithArgs(roomID, booking.CheckIn, booking.CheckOut).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := repo.CreateWithLock(context.Background(), booking)

		assert.ErrorIs(t, err, repository.ErrRoomUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exclusion constraint backstops a racing insert", func(t *testing.T) {
		repo, mock := newBookingRepository(t)
		booking := sampleBooking(roomID, 2)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT price FROM rooms").
			WithArgs(roomID).
			WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(500000.0))
		mock.ExpectQuery(overlapPredicate).
			WithArgs(roomID, booking.CheckIn, booking.CheckOut).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnError(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeExclusionViolation)})
		mock.ExpectRollback()

		_, err := repo.CreateWithLock(context.Background(), booking)

		assert.ErrorIs(t, err, repository.ErrRoomUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
