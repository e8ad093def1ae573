package dto

import (
	"strings"

	"hotel/internal/domains/staff/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type CreateStaffRequest struct {
	StaffCode string `json:"staff_code" validate:"required,alphanum,max=20"   example:"STF001"`
	StaffName string `json:"staff_name" validate:"required,max=100"`
	Position  string `json:"position"   validate:"omitempty,max=50"           example:"Receptionist"`
	Email     string `json:"email"      validate:"omitempty,email,max=100"`
}

// ToModel normalises the code to upper case so STF001 and stf001 collide.
func (c *CreateStaffRequest) ToModel(user string) model.Staff {
	position := strings.TrimSpace(c.Position)
	if position == constant.Empty {
		position = model.DefaultPosition
	}

	var email *string
	if c.Email != constant.Empty {
		email = &c.Email
	}

	return model.Staff{
		ID:        uuid.NewString(),
		StaffCode: strings.ToUpper(c.StaffCode),
		StaffName: strings.TrimSpace(c.StaffName),
		Position:  position,
		Email:     email,
		Metadata:  gModel.NewMetadata(user, timezone.Now()),
	}
}

type CreateStaffResponse struct {
	ID string `json:"id"`
}

type UpdateStaffRequest struct {
	StaffCode string  `db:"staff_code" json:"staff_code" validate:"omitempty,alphanum,max=20"`
	StaffName string  `db:"staff_name" json:"staff_name" validate:"omitempty,max=100"`
	Position  string  `db:"position"   json:"position"   validate:"omitempty,max=50"`
	Email     *string `db:"email"      json:"email"      validate:"omitempty,email,max=100"`
}

func (u *UpdateStaffRequest) IsEmpty() bool {
	return u.StaffCode == constant.Empty && u.StaffName == constant.Empty && u.Position == constant.Empty && u.Email == nil
}

func (u *UpdateStaffRequest) Normalize() {
	u.StaffCode = strings.ToUpper(u.StaffCode)
}

type StaffResponse struct {
	ID        string  `json:"id"`
	StaffCode string  `json:"staff_code"`
	StaffName string  `json:"staff_name"`
	Position  string  `json:"position"`
	Email     *string `json:"email"`
	gDto.Metadata
}

func (r *StaffResponse) FromModel(staff model.Staff) {
	r.ID = staff.ID
	r.StaffCode = staff.StaffCode
	r.StaffName = staff.StaffName
	r.Position = staff.Position
	r.Email = staff.Email
	r.Metadata.FromModel(staff.Metadata)
}

type GetStaffResponse struct {
	Staff     []StaffResponse `json:"staff"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetStaffResponse) FromModels(models []model.Staff, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Staff = make([]StaffResponse, len(models))
	for i, mod := range models {
		r.Staff[i].FromModel(mod)
	}
}
