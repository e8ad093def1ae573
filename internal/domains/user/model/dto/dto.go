package dto

import (
	"hotel/internal/domains/user/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/timezone"
)

type UserResponse struct {
	ID            string  `json:"id"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone"`
	Level         string  `json:"level"`
	Active        bool    `json:"active"`
	LastLogin     string  `json:"last_login,omitempty"`
	TotalBookings int     `json:"total_bookings"`
	TotalSpent    float64 `json:"total_spent"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.FullName = user.FullName
	r.Email = user.Email
	r.Phone = user.Phone
	r.Level = user.Level
	r.Active = user.Active
	r.TotalBookings = user.TotalBookings
	r.TotalSpent = user.TotalSpent
	r.Metadata.FromModel(user.Metadata)

	if user.LastLogin != nil {
		r.LastLogin = timezone.Format(*user.LastLogin, constant.DateFormat)
	}
}

// UpdateUserRequest is the admin side edit of a customer.
type UpdateUserRequest struct {
	FullName string  `db:"full_name" json:"full_name" validate:"omitempty,min=2,max=100"`
	Email    string  `db:"email"     json:"email"     validate:"omitempty,email,max=100"`
	Phone    *string `db:"phone"     json:"phone"     validate:"omitempty,max=20"`
	Active   *bool   `db:"active"    json:"active"`
}

func (u *UpdateUserRequest) IsEmpty() bool {
	return u.FullName == constant.Empty && u.Email == constant.Empty && u.Phone == nil && u.Active == nil
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
