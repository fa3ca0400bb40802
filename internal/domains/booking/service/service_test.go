package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"wisma/config"
	"wisma/infras/otel/mocks"
	bookingMocks "wisma/internal/domains/booking/mocks"
	"wisma/internal/domains/booking/model"
	"wisma/internal/domains/booking/model/dto"
	"wisma/internal/domains/booking/repository"
	"wisma/internal/domains/booking/service"
	roomMocks "wisma/internal/domains/room/mocks"
	roomModel "wisma/internal/domains/room/model"
	cacheMocks "wisma/shared/cache/mocks"
	"wisma/shared/constant"
	gDto "wisma/shared/dto"
	"wisma/shared/failure"
	gModel "wisma/shared/model"
	"wisma/shared/timezone"
)

type bookingServiceMocks struct {
	repo   *bookingMocks.MockBooking
	room   *roomMocks.MockRoom
	cache  *cacheMocks.MockRedisCache
	events *bookingMocks.MockPublisher
}

func newBookingService(t *testing.T) (service.Booking, bookingServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := bookingServiceMocks{
		repo:   bookingMocks.NewMockBooking(ctrl),
		room:   roomMocks.NewMockRoom(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
		events: bookingMocks.NewMockPublisher(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.CancellationWindowHours = 24

	// Async cache invalidation and event publishing run on goroutines the
	// tests do not wait for.
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.events.EXPECT().BookingCreated(gomock.Any(), gomock.Any()).AnyTimes()
	m.events.EXPECT().BookingStatusChanged(gomock.Any(), gomock.Any()).AnyTimes()
	m.events.EXPECT().BookingCancelled(gomock.Any(), gomock.Any()).AnyTimes()

	svc := service.New(m.repo, m.room, cfg, m.cache, mocks.NewOtel(), m.events)

	return svc, m
}

func activeRoom(id string) roomModel.Room {
	return roomModel.Room{
		ID:     id,
		Name:   "Deluxe Twin",
		Price:  500000,
		Active: true,
	}
}

func TestBookingService_CheckAvailability(t *testing.T) {
	roomID := "5f6d41b6-9f1e-4f6a-8f0d-0a2ec0c6d0a1"

	tests := []struct {
		name          string
		req           dto.CheckAvailabilityRequest
		setupMock     func(m bookingServiceMocks)
		wantErr       bool
		wantCode      int
		wantAvailable bool
	}{
		{
			name: "room is available",
			req: dto.CheckAvailabilityRequest{
				RoomID:   roomID,
				CheckIn:  "2026-01-10",
				CheckOut: "2026-01-12",
			},
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					HasOverlap(gomock.Any(), roomID, gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantAvailable: true,
		},
		{
			name: "room is taken for overlapping dates",
			req: dto.CheckAvailabilityRequest{
				RoomID:   roomID,
				CheckIn:  "2026-01-08",
				CheckOut: "2026-01-12",
			},
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					HasOverlap(gomock.Any(), roomID, gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantAvailable: false,
		},
		{
			name: "unknown room has no bookings and reads as available",
			req: dto.CheckAvailabilityRequest{
				RoomID:   "00000000-0000-0000-0000-000000000000",
				CheckIn:  "2026-01-10",
				CheckOut: "2026-01-12",
			},
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					HasOverlap(gomock.Any(), "00000000-0000-0000-0000-000000000000", gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantAvailable: true,
		},
		{
			name: "check_out not after check_in",
			req: dto.CheckAvailabilityRequest{
				RoomID:   roomID,
				CheckIn:  "2026-01-10",
				CheckOut: "2026-01-10",
			},
			setupMock: func(m bookingServiceMocks) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "invalid date format",
			req: dto.CheckAvailabilityRequest{
				RoomID:   roomID,
				CheckIn:  "10 Jan 2026",
				CheckOut: "2026-01-12",
			},
			setupMock: func(m bookingServiceMocks) {},
			wantErr:   true,
			wantCode:  400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newBookingService(t)
			tt.setupMock(m)

			res, err := svc.CheckAvailability(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantAvailable, res.IsAvailable)
			}
		})
	}
}

func TestBookingService_Create(t *testing.T) {
	roomID := "5f6d41b6-9f1e-4f6a-8f0d-0a2ec0c6d0a1"
	checkIn := time.Now().Add(48 * time.Hour)
	checkOut := checkIn.Add(48 * time.Hour)

	req := dto.CreateBookingRequest{
		RoomID:        roomID,
		CheckIn:       checkIn.Format("2006-01-02"),
		CheckOut:      checkOut.Format("2006-01-02"),
		ReserverName:  "Siti Rahma",
		ReserverPhone: "081234567890",
	}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(m bookingServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  req,
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					CreateWithLock(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) (model.Booking, error) {
						booking.TotalPrice = 2 * 500000

						return booking, nil
					})
				m.room.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeRoom(roomID), nil)
			},
		},
		{
			name: "same-day check-in is not in the past",
			req: dto.CreateBookingRequest{
				RoomID:        roomID,
				CheckIn:       timezone.Now().Format("2006-01-02"),
				CheckOut:      timezone.Now().AddDate(0, 0, 2).Format("2006-01-02"),
				ReserverName:  "Siti Rahma",
				ReserverPhone: "081234567890",
			},
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					CreateWithLock(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) (model.Booking, error) {
						booking.TotalPrice = 2 * 500000

						return booking, nil
					})
				m.room.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeRoom(roomID), nil)
			},
		},
		{
			name: "room already booked",
			req:  req,
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					CreateWithLock(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, repository.ErrRoomUnavailable)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "room missing or inactive",
			req:  req,
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					CreateWithLock(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, repository.ErrRoomNotFound)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "repository error",
			req:  req,
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					CreateWithLock(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, errors.New("database error"))
			},
			wantErr: true,
		},
		{
			name: "check_in in the past",
			req: dto.CreateBookingRequest{
				RoomID:        roomID,
				CheckIn:       "2020-01-10",
				CheckOut:      "2020-01-12",
				ReserverName:  "Siti Rahma",
				ReserverPhone: "081234567890",
			},
			setupMock: func(m bookingServiceMocks) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "check_out before check_in",
			req: dto.CreateBookingRequest{
				RoomID:        roomID,
				CheckIn:       checkOut.Format("2006-01-02"),
				CheckOut:      checkIn.Format("2006-01-02"),
				ReserverName:  "Siti Rahma",
				ReserverPhone: "081234567890",
			},
			setupMock: func(m bookingServiceMocks) {},
			wantErr:   true,
			wantCode:  400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newBookingService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			res, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, constant.BookingStatusPending, res.Status)
				assert.Equal(t, float64(1000000), res.TotalPrice)
				assert.NotNil(t, res.Room)
			}
		})
	}
}

func TestBookingService_SetStatus(t *testing.T) {
	bookingID := "9a6e0a53-7a6c-4a82-95a2-2e2b6dfdd0c2"

	storedBooking := model.Booking{
		ID:      bookingID,
		RoomID:  "room-1",
		Status:  constant.BookingStatusPending,
		CheckIn: time.Now().Add(72 * time.Hour),
	}

	tests := []struct {
		name      string
		req       dto.UpdateBookingStatusRequest
		setupMock func(m bookingServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "confirm booking",
			req:  dto.UpdateBookingStatusRequest{Status: constant.BookingStatusConfirmed},
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking, nil)
				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, constant.BookingStatusConfirmed, fields[model.FieldStatus])
						assert.Nil(t, fields[model.FieldCancellationReason])

						return nil
					})
			},
		},
		{
			name: "cancel requires a reason",
			req:  dto.UpdateBookingStatusRequest{Status: constant.BookingStatusCancelled},
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "cancel with reason",
			req: dto.UpdateBookingStatusRequest{
				Status:             constant.BookingStatusCancelled,
				CancellationReason: "double booked by phone",
			},
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking, nil)
				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, "double booked by phone", fields[model.FieldCancellationReason])

						return nil
					})
			},
		},
		{
			name: "reviving a cancelled booking conflicts with a newer stay",
			req:  dto.UpdateBookingStatusRequest{Status: constant.BookingStatusConfirmed},
			setupMock: func(m bookingServiceMocks) {
				cancelled := storedBooking
				cancelled.Status = constant.BookingStatusCancelled

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(cancelled, nil)
				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to update data (booking): %w", &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeExclusionViolation)}))
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "booking not found",
			req:  dto.UpdateBookingStatusRequest{Status: constant.BookingStatusConfirmed},
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newBookingService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
			err := svc.SetStatus(ctx, tt.req, bookingID)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_CancelByOwner(t *testing.T) {
	bookingID := "9a6e0a53-7a6c-4a82-95a2-2e2b6dfdd0c2"
	ownerID := "owner-user-id"

	ownedBooking := func(checkIn time.Time) model.Booking {
		return model.Booking{
			ID:      bookingID,
			RoomID:  "room-1",
			Status:  constant.BookingStatusPending,
			CheckIn: checkIn,
			Metadata: gModel.Metadata{
				CreatedBy: ownerID,
			},
		}
	}

	tests := []struct {
		name      string
		userID    string
		setupMock func(m bookingServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name:   "owner cancels well before check-in",
			userID: ownerID,
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedBooking(time.Now().Add(72*time.Hour)), nil)
				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:   "too close to check-in",
			userID: ownerID,
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedBooking(time.Now().Add(12*time.Hour)), nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name:   "not the owner",
			userID: "somebody-else",
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedBooking(time.Now().Add(72*time.Hour)), nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name:   "guest bookings have no owner",
			userID: ownerID,
			setupMock: func(m bookingServiceMocks) {
				booking := ownedBooking(time.Now().Add(72 * time.Hour))
				booking.CreatedBy = constant.ContextGuest

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name:   "already cancelled",
			userID: ownerID,
			setupMock: func(m bookingServiceMocks) {
				booking := ownedBooking(time.Now().Add(72 * time.Hour))
				booking.Status = constant.BookingStatusCancelled

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name:   "booking not found",
			userID: ownerID,
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newBookingService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, tt.userID)
			err := svc.CancelByOwner(ctx, dto.CancelBookingRequest{Reason: "change of plans"}, bookingID)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	bookingID := "9a6e0a53-7a6c-4a82-95a2-2e2b6dfdd0c2"

	t.Run("found with room attached", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: bookingID, RoomID: "room-1", Status: constant.BookingStatusPending}, nil)
		m.room.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeRoom("room-1"), nil)

		res, err := svc.Get(context.Background(), bookingID)

		assert.NoError(t, err)
		assert.Equal(t, bookingID, res.ID)
		assert.NotNil(t, res.Room)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), bookingID)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestBookingService_GetAll(t *testing.T) {
	svc, m := newBookingService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)
	m.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)
	m.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{
			{ID: "booking-1", Status: constant.BookingStatusPending},
			{ID: "booking-2", Status: constant.BookingStatusConfirmed},
		}, nil)

	params := gDto.QueryParams{Page: 1, Limit: 10}

	res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, res.Bookings, 2)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
}

func TestBookingService_Delete(t *testing.T) {
	bookingID := "9a6e0a53-7a6c-4a82-95a2-2e2b6dfdd0c2"

	t.Run("successful deletion", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), bookingID))
	})

	t.Run("booking not found", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(context.Background(), bookingID)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
