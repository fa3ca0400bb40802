package dto

import (
	"wisma/internal/domains/facility/model"
	"wisma/shared"
	gDto "wisma/shared/dto"
	gModel "wisma/shared/model"
	"wisma/shared/timezone"

	"github.com/google/uuid"
)

type CreateFacilityRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Icon        string `json:"icon"        validate:"omitempty,max=100"`
}

func (c *CreateFacilityRequest) ToModel(user string) model.Facility {
	return model.Facility{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Active:      true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateFacilityRequest struct {
	Name        string `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Description string `db:"description" json:"description" validate:"omitempty,max=500"`
	Icon        string `db:"icon"        json:"icon"        validate:"omitempty,max=100"`
	Active      *bool  `db:"active"      json:"active"      validate:"omitempty"`
}

type FacilityResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Active      bool   `json:"active"`
	gDto.Metadata
}

func (r *FacilityResponse) FromModel(model model.Facility) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Icon = model.Icon
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetFacilitiesResponse struct {
	Facilities []FacilityResponse `json:"facilities"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetFacilitiesResponse) FromModels(models []model.Facility, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Facilities = make([]FacilityResponse, len(models))
	for i, mod := range models {
		r.Facilities[i].FromModel(mod)
	}
}
