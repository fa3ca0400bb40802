package dto

import (
	"time"

	"wisma/internal/domains/booking/model"
	roomDto "wisma/internal/domains/room/model/dto"
	roomModel "wisma/internal/domains/room/model"
	"wisma/shared"
	"wisma/shared/constant"
	gDto "wisma/shared/dto"
	gModel "wisma/shared/model"
	"wisma/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID          string `json:"room_id"          validate:"required,uuid"`
	CheckIn         string `json:"check_in"         validate:"required"`
	CheckOut        string `json:"check_out"        validate:"required"`
	ReserverName    string `json:"reserver_name"    validate:"required,max=100"`
	ReserverPhone   string `json:"reserver_phone"   validate:"required,max=20"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=1000"`
}

// ParseDates parses the requested stay. Date-only values are accepted as
// well as full timestamps, both interpreted in the application timezone.
func (c *CreateBookingRequest) ParseDates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = ParseStayDate(c.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = ParseStayDate(c.CheckOut)

	return checkIn, checkOut, err
}

func ParseStayDate(value string) (time.Time, error) {
	parsed, err := timezone.Parse(constant.DateOnlyFormat, value)
	if err == nil {
		return parsed, nil
	}

	return timezone.Parse(constant.DateFormat, value)
}

func (c *CreateBookingRequest) ToModel(user string, checkIn, checkOut time.Time, totalPrice float64) model.Booking {
	var specialRequests *string
	if c.SpecialRequests != "" {
		specialRequests = &c.SpecialRequests
	}

	return model.Booking{
		ID:              uuid.NewString(),
		RoomID:          c.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Status:          constant.BookingStatusPending,
		TotalPrice:      totalPrice,
		SpecialRequests: specialRequests,
		ReserverName:    c.ReserverName,
		ReserverPhone:   c.ReserverPhone,
		Active:          true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type CheckAvailabilityRequest struct {
	RoomID   string `json:"room_id"   validate:"required,uuid"`
	CheckIn  string `json:"check_in"  validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
}

func (c *CheckAvailabilityRequest) ParseDates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = ParseStayDate(c.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = ParseStayDate(c.CheckOut)

	return checkIn, checkOut, err
}

type UpdateBookingStatusRequest struct {
	Status             string `json:"status"              validate:"required,oneof=pending confirmed cancelled completed"`
	CancellationReason string `json:"cancellation_reason" validate:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type AvailabilityResponse struct {
	IsAvailable bool `json:"is_available"`
}

type BookingResponse struct {
	ID                 string                `json:"id"`
	RoomID             string                `json:"room_id"`
	CheckIn            string                `json:"check_in"`
	CheckOut           string                `json:"check_out"`
	Status             string                `json:"status"`
	TotalPrice         float64               `json:"total_price"`
	SpecialRequests    *string               `json:"special_requests,omitempty"`
	CancellationReason *string               `json:"cancellation_reason,omitempty"`
	ReserverName       string                `json:"reserver_name"`
	ReserverPhone      string                `json:"reserver_phone"`
	Room               *roomDto.RoomResponse `json:"room,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.CheckIn = timezone.Format(model.CheckIn, constant.DateOnlyFormat)
	r.CheckOut = timezone.Format(model.CheckOut, constant.DateOnlyFormat)
	r.Status = model.Status
	r.TotalPrice = model.TotalPrice
	r.SpecialRequests = model.SpecialRequests
	r.CancellationReason = model.CancellationReason
	r.ReserverName = model.ReserverName
	r.ReserverPhone = model.ReserverPhone
	r.Metadata.FromModel(model.Metadata)
}

func (r *BookingResponse) AttachRoom(model roomModel.Room) {
	room := roomDto.RoomResponse{}
	room.FromModel(model)
	r.Room = &room
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
