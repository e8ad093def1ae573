package model

import (
	"time"

	"hotel/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldFullName  = "full_name"
	FieldPassword  = "password"
	FieldLevel     = "level"
	FieldActive    = "active"
	FieldLastLogin = "last_login"
)

// User is a customer account. TotalBookings and TotalSpent are aggregated
// from the bookings table on read.
type User struct {
	ID        string     `db:"id"`
	FullName  string     `db:"full_name"`
	Email     string     `db:"email"`
	Phone     *string    `db:"phone"`
	Password  string     `db:"password"`
	Level     string     `db:"level"`
	Active    bool       `db:"active"`
	LastLogin *time.Time `db:"last_login"`

	TotalBookings int     `db:"total_bookings" table:"stats"`
	TotalSpent    float64 `db:"total_spent"    table:"stats"`

	model.Metadata
}

func (User) GetJoinQuery() string {
	return "LEFT JOIN LATERAL (" +
		"SELECT COUNT(bookings.id) AS total_bookings, COALESCE(SUM(bookings.total_amount), 0) AS total_spent " +
		"FROM bookings WHERE bookings.user_id = users.id" +
		") stats ON TRUE"
}
