package model

import "wisma/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCapacity    = "capacity"
	FieldPrice       = "price"
	FieldImage       = "image"
	FieldActive      = "active"
)

type Room struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Capacity    int     `db:"capacity"`
	Price       float64 `db:"price"`
	Image       string  `db:"image"`
	Active      bool    `db:"active"`
	model.Metadata
}
