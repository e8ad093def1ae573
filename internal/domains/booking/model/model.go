package model

import (
	"math"
	"strings"
	"time"

	"hotel/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldRoomID    = "room_id"
	FieldUserID    = "user_id"
	FieldStatus    = "status"
	FieldCheckIn   = "check_in"
	FieldCheckOut  = "check_out"
	FieldCreatedAt = "created_at"
)

const (
	PaymentCash       = "cash"
	PaymentCreditCard = "credit_card"
	PaymentPaypal     = "paypal"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Booking is one stay. RoomID and UserID become NULL when the room or the
// customer is deleted; the booking itself is kept as history. Room and user
// fields are read through joins only.
type Booking struct {
	ID            string    `db:"id"`
	RoomID        *string   `db:"room_id"`
	UserID        *string   `db:"user_id"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
	CustomerPhone string    `db:"customer_phone"`
	CheckIn       time.Time `db:"check_in"`
	CheckOut      time.Time `db:"check_out"`
	Guests        int       `db:"guests"`
	TotalAmount   float64   `db:"total_amount"`
	PaymentMethod string    `db:"payment_method"`
	Status        Status    `db:"status"`

	RoomNumber *string `db:"room_number" table:"rooms"`
	RoomName   *string `db:"room_name"   table:"rooms"`
	RoomType   *string `db:"room_type"   table:"rooms"`
	UserName   *string `column:"full_name" db:"user_name" table:"users"`

	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = bookings.room_id LEFT JOIN users ON users.id = bookings.user_id"
}

func (b Booking) Nights() int {
	return Nights(b.CheckIn, b.CheckOut)
}

func (b Booking) PaymentStatus() string {
	return PaymentStatus(b.Status)
}

// Nights counts calendar nights between two stay dates.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Round(checkOut.Sub(checkIn).Hours() / 24))
}

// NormalizePaymentMethod folds the accepted spellings. Anything unknown is
// settled in cash at the desk.
func NormalizePaymentMethod(method string) string {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "cc", PaymentCreditCard:
		return PaymentCreditCard
	case PaymentPaypal:
		return PaymentPaypal
	default:
		return PaymentCash
	}
}

func PaymentStatus(status Status) string {
	switch status {
	case StatusCompleted:
		return PaymentStatusPaid
	case StatusCancelled:
		return PaymentStatusRefunded
	default:
		return PaymentStatusPending
	}
}
