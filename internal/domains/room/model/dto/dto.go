package dto

import (
	facilityDto "wisma/internal/domains/facility/model/dto"
	facilityModel "wisma/internal/domains/facility/model"
	"wisma/internal/domains/room/model"
	"wisma/shared"
	gDto "wisma/shared/dto"
	gModel "wisma/shared/model"
	"wisma/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	Description string   `json:"description" validate:"required,max=2000"`
	Capacity    int      `json:"capacity"    validate:"required,min=1"`
	Price       float64  `json:"price"       validate:"required,min=0"`
	Image       string   `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	Facilities  []string `json:"facilities"  validate:"omitempty,dive,uuid"`
	Active      *bool    `json:"active"      validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Room{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Capacity:    c.Capacity,
		Price:       c.Price,
		Image:       imageURL,
		Active:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name        string   `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Description string   `db:"description" json:"description" validate:"omitempty,max=2000"`
	Capacity    *int     `db:"capacity"    json:"capacity"    validate:"omitempty,min=1"`
	Price       *float64 `db:"price"       json:"price"       validate:"omitempty,min=0"`
	Image       string   `json:"image"     validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	Facilities  []string `json:"facilities" validate:"omitempty,dive,uuid"`
	Active      *bool    `db:"active"      json:"active"      validate:"omitempty"`
}

type RoomResponse struct {
	ID          string                          `json:"id"`
	Name        string                          `json:"name"`
	Description string                          `json:"description"`
	Capacity    int                             `json:"capacity"`
	Price       float64                         `json:"price"`
	Image       string                          `json:"image"`
	Active      bool                            `json:"active"`
	Facilities  []facilityDto.FacilityResponse  `json:"facilities"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Capacity = model.Capacity
	r.Price = model.Price
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

func (r *RoomResponse) AttachFacilities(models []facilityModel.Facility) {
	r.Facilities = make([]facilityDto.FacilityResponse, len(models))
	for i, mod := range models {
		r.Facilities[i].FromModel(mod)
	}
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
