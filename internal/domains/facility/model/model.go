package model

import "wisma/shared/model"

const (
	TableName  = "facilities"
	EntityName = "facility"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldIcon        = "icon"
	FieldActive      = "active"
)

type Facility struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Icon        string `db:"icon"`
	Active      bool   `db:"active"`
	model.Metadata
}
