package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wisma/config"
	"wisma/infras/otel"
	"wisma/internal/domains/booking/event"
	"wisma/internal/domains/booking/model"
	"wisma/internal/domains/booking/model/dto"
	"wisma/internal/domains/booking/repository"
	roomModel "wisma/internal/domains/room/model"
	roomRepo "wisma/internal/domains/room/repository"
	"wisma/shared"
	"wisma/shared/cache"
	"wisma/shared/constant"
	gDto "wisma/shared/dto"
	"wisma/shared/failure"
	"wisma/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (dto.AvailabilityResponse, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	SetStatus(ctx context.Context, req dto.UpdateBookingStatusRequest, id string) error
	CancelByOwner(ctx context.Context, req dto.CancelBookingRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	events   event.Publisher
}

func New(repo repository.Booking, roomRepo roomRepo.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, events event.Publisher) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		events:   events,
	}
}

// CheckAvailability answers whether a room is free for the requested stay.
// It shares the overlap predicate with Create, so a positive answer can only
// be invalidated by a booking that lands in between, never by a different
// definition of "free". The check reads bookings only: a room id with no
// bookings reads as available, and room existence is enforced at creation.
func (s *serviceImpl) CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, checkOut, err := req.ParseDates()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse availability dates")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check_out must be after check_in") // nolint:wrapcheck
	}

	overlap, err := s.repo.HasOverlap(ctx, req.RoomID, checkIn, checkOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking overlap")

		return res, fmt.Errorf("failed to check booking overlap: %w", err)
	}

	res.IsAvailable = !overlap

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.ContextGuest
	}

	checkIn, checkOut, err := req.ParseDates()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking dates")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check_out must be after check_in") // nolint:wrapcheck
	}

	now := timezone.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, timezone.GetLocation())

	if checkIn.Before(today) {
		return res, failure.BadRequestFromString("check_in cannot be in the past") // nolint:wrapcheck
	}

	booking, err := s.repo.CreateWithLock(ctx, req.ToModel(user, checkIn, checkOut, 0))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return res, failure.NotFound("room not found") // nolint:wrapcheck
		case errors.Is(err, repository.ErrRoomUnavailable):
			return res, failure.Conflict("room is already booked for the selected dates") // nolint:wrapcheck
		default:
			log.Error().Err(err).Msg("failed to create booking")

			return res, fmt.Errorf("failed to create booking: %w", err)
		}
	}

	res.FromModel(booking)

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room for booking response")
	} else if room.ID != constant.Empty {
		res.AttachRoom(room)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.events.BookingCreated(c, booking)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room for booking response")
	} else if room.ID != constant.Empty {
		res.AttachRoom(room)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// SetStatus is the administrative transition. Moving to cancelled requires a
// reason, any other status clears a previously recorded one.
func (s *serviceImpl) SetStatus(ctx context.Context, req dto.UpdateBookingStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if req.Status == constant.BookingStatusCancelled {
		if req.CancellationReason == constant.Empty {
			return failure.BadRequestFromString("cancellation_reason is required when cancelling a booking") // nolint:wrapcheck
		}

		updatedFields[model.FieldCancellationReason] = req.CancellationReason
	} else {
		updatedFields[model.FieldCancellationReason] = nil
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		// Reviving a cancelled booking re-enters the exclusion constraint.
		if repository.IsExclusionViolation(err) {
			return failure.Conflict("room is already booked for the selected dates") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = req.Status

	go func() {
		c := context.WithoutCancel(ctx)

		if req.Status == constant.BookingStatusCancelled {
			s.events.BookingCancelled(c, booking)
		} else {
			s.events.BookingStatusChanged(c, booking)
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

// CancelByOwner lets the account that created a booking cancel it, as long
// as check-in is still at least the configured window away. Guest bookings
// have no owner and must go through an administrator.
func (s *serviceImpl) CancelByOwner(ctx context.Context, req dto.CancelBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelByOwner")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.IsGuestBooking() || booking.CreatedBy != user {
		return failure.Forbidden("you can only cancel your own bookings") // nolint:wrapcheck
	}

	if booking.Status == constant.BookingStatusCancelled {
		return failure.BadRequestFromString("booking is already cancelled") // nolint:wrapcheck
	}

	window := time.Duration(s.cfg.Booking.CancellationWindowHours) * time.Hour
	if timezone.Now().Add(window).After(booking.CheckIn) {
		return failure.BadRequestFromString(fmt.Sprintf("bookings can only be cancelled at least %d hours before check-in", s.cfg.Booking.CancellationWindowHours)) // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStatus:             constant.BookingStatusCancelled,
		model.FieldCancellationReason: req.Reason,
		constant.FieldModifiedAt:      timezone.Now(),
		constant.FieldModifiedBy:      user,
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.Status = constant.BookingStatusCancelled

	go func() {
		c := context.WithoutCancel(ctx)

		s.events.BookingCancelled(c, booking)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(nil)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		log.Error().Msg("booking not found")

		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}
