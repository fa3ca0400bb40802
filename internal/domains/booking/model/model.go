package model

import (
	"time"

	"wisma/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldRoomID             = "room_id"
	FieldCheckIn            = "check_in"
	FieldCheckOut           = "check_out"
	FieldStatus             = "status"
	FieldTotalPrice         = "total_price"
	FieldSpecialRequests    = "special_requests"
	FieldCancellationReason = "cancellation_reason"
	FieldReserverName       = "reserver_name"
	FieldReserverPhone      = "reserver_phone"
	FieldActive             = "active"
)

type Booking struct {
	ID                 string    `db:"id"`
	RoomID             string    `db:"room_id"`
	CheckIn            time.Time `db:"check_in"`
	CheckOut           time.Time `db:"check_out"`
	Status             string    `db:"status"`
	TotalPrice         float64   `db:"total_price"`
	SpecialRequests    *string   `db:"special_requests"`
	CancellationReason *string   `db:"cancellation_reason"`
	ReserverName       string    `db:"reserver_name"`
	ReserverPhone      string    `db:"reserver_phone"`
	Active             bool      `db:"active"`
	model.Metadata
}

// IsGuestBooking reports whether the booking was made without an account.
// CreatedBy doubles as the owner reference for authenticated bookings.
func (b Booking) IsGuestBooking() bool {
	return b.CreatedBy == "" || b.CreatedBy == "guest"
}
