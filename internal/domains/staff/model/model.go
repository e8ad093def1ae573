package model

import "hotel/shared/model"

const (
	TableName  = "staff"
	EntityName = "staff"

	FieldID        = "id"
	FieldStaffCode = "staff_code"
	FieldPosition  = "position"
)

const DefaultPosition = "Staff"

type Staff struct {
	ID        string  `db:"id"`
	StaffCode string  `db:"staff_code"`
	StaffName string  `db:"staff_name"`
	Position  string  `db:"position"`
	Email     *string `db:"email"`
	model.Metadata
}
