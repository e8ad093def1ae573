package dto

import (
	"fmt"
	"strings"
	"time"

	"hotel/internal/domains/booking/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

const DefaultGuests = 1

type CreateBookingRequest struct {
	RoomID        string  `json:"room_id"        validate:"required,uuid"`
	CheckIn       string  `json:"check_in"       validate:"required,datetime=2006-01-02" example:"2026-03-01"`
	CheckOut      string  `json:"check_out"      validate:"required,datetime=2006-01-02" example:"2026-03-03"`
	Guests        int     `json:"guests"         validate:"omitempty,min=1,max=20"`
	FirstName     string  `json:"first_name"     validate:"required,max=50"`
	LastName      string  `json:"last_name"      validate:"omitempty,max=50"`
	Email         string  `json:"email"          validate:"required,email,max=100"`
	Phone         string  `json:"phone"          validate:"omitempty,max=20"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,max=20"     example:"credit_card"`
	TotalAmount   float64 `json:"total_amount"   validate:"omitempty,gt=0"`
}

// DateRange parses the stay dates. The check-out must fall after the check-in.
func (c *CreateBookingRequest) DateRange() (checkIn, checkOut time.Time, err error) {
	return parseDateRange(c.CheckIn, c.CheckOut)
}

func parseDateRange(rawCheckIn, rawCheckOut string) (checkIn, checkOut time.Time, err error) {
	checkIn, err = timezone.Parse(constant.DateOnlyFormat, rawCheckIn)
	if err != nil {
		return checkIn, checkOut, failure.BadRequestFromString("check_in must be a date in the format 2006-01-02") //nolint:wrapcheck
	}

	checkOut, err = timezone.Parse(constant.DateOnlyFormat, rawCheckOut)
	if err != nil {
		return checkIn, checkOut, failure.BadRequestFromString("check_out must be a date in the format 2006-01-02") //nolint:wrapcheck
	}

	if err = ValidateDateRange(checkIn, checkOut); err != nil {
		return checkIn, checkOut, err
	}

	return checkIn, checkOut, nil
}

func ValidateDateRange(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return failure.BadRequestFromString("check_out must be after check_in") //nolint:wrapcheck
	}

	return nil
}

// ToModel builds a pending booking. Without an explicit total the nightly
// price is charged for every night of the stay.
func (c *CreateBookingRequest) ToModel(user string, userID, roomID *string, nightlyPrice float64, checkIn, checkOut time.Time) model.Booking {
	guests := c.Guests
	if guests == 0 {
		guests = DefaultGuests
	}

	total := c.TotalAmount
	if total == 0 {
		total = nightlyPrice * float64(model.Nights(checkIn, checkOut))
	}

	return model.Booking{
		ID:            uuid.NewString(),
		RoomID:        roomID,
		UserID:        userID,
		CustomerName:  strings.TrimSpace(c.FirstName + " " + c.LastName),
		CustomerEmail: c.Email,
		CustomerPhone: c.Phone,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        guests,
		TotalAmount:   total,
		PaymentMethod: model.NormalizePaymentMethod(c.PaymentMethod),
		Status:        model.StatusPending,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}
}

type CreateBookingResponse struct {
	ID string `json:"id"`
}

// TransitionBookingRequest moves a booking along its status machine and may
// adjust the stay. Omitted fields keep their current value.
type TransitionBookingRequest struct {
	Status   string `json:"status"    validate:"omitempty,oneof=pending confirmed completed cancelled"`
	CheckIn  string `json:"check_in"  validate:"omitempty,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
	Guests   int    `json:"guests"    validate:"omitempty,min=1,max=20"`
}

func (r *TransitionBookingRequest) IsEmpty() bool {
	return *r == TransitionBookingRequest{}
}

// BookingUpdate is the column set a transition writes.
type BookingUpdate struct {
	Status   model.Status `db:"status"`
	CheckIn  time.Time    `db:"check_in"`
	CheckOut time.Time    `db:"check_out"`
	Guests   int          `db:"guests"`
}

// Resolve applies the request to current. It rejects illegal status changes
// and stays whose check-out is not after the check-in.
func (r *TransitionBookingRequest) Resolve(current model.Booking) (BookingUpdate, error) {
	update := BookingUpdate{Status: current.Status}

	if r.Status != constant.Empty {
		next, err := model.ParseStatus(r.Status)
		if err != nil {
			return update, failure.BadRequest(err) //nolint:wrapcheck
		}

		if next != current.Status && !current.Status.CanTransition(next) {
			return update, failure.BadRequestFromString(fmt.Sprintf("cannot change booking status from %s to %s", current.Status, next)) //nolint:wrapcheck
		}

		update.Status = next
	}

	checkIn, checkOut := current.CheckIn, current.CheckOut

	if r.CheckIn != constant.Empty || r.CheckOut != constant.Empty {
		rawCheckIn := timezone.FormatDate(checkIn, constant.DateOnlyFormat)
		if r.CheckIn != constant.Empty {
			rawCheckIn = r.CheckIn
		}

		rawCheckOut := timezone.FormatDate(checkOut, constant.DateOnlyFormat)
		if r.CheckOut != constant.Empty {
			rawCheckOut = r.CheckOut
		}

		var err error

		checkIn, checkOut, err = parseDateRange(rawCheckIn, rawCheckOut)
		if err != nil {
			return update, err
		}

		update.CheckIn = checkIn
		update.CheckOut = checkOut
	}

	update.Guests = r.Guests

	return update, nil
}

type BookingResponse struct {
	ID            string  `json:"id"`
	RoomID        *string `json:"room_id"`
	RoomNumber    *string `json:"room_number"`
	RoomName      *string `json:"room_name"`
	RoomType      *string `json:"room_type"`
	UserID        *string `json:"user_id"`
	UserName      *string `json:"user_name"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone string  `json:"customer_phone"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	Nights        int     `json:"nights"`
	Guests        int     `json:"guests"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentStatus string  `json:"payment_status"`
	Status        string  `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.RoomID = booking.RoomID
	r.RoomNumber = booking.RoomNumber
	r.RoomName = booking.RoomName
	r.RoomType = booking.RoomType
	r.UserID = booking.UserID
	r.UserName = booking.UserName
	r.CustomerName = booking.CustomerName
	r.CustomerEmail = booking.CustomerEmail
	r.CustomerPhone = booking.CustomerPhone
	r.CheckIn = timezone.FormatDate(booking.CheckIn, constant.DateOnlyFormat)
	r.CheckOut = timezone.FormatDate(booking.CheckOut, constant.DateOnlyFormat)
	r.Nights = booking.Nights()
	r.Guests = booking.Guests
	r.TotalAmount = booking.TotalAmount
	r.PaymentMethod = booking.PaymentMethod
	r.PaymentStatus = booking.PaymentStatus()
	r.Status = booking.Status.String()
	r.Metadata.FromModel(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingDeleted       = "booking.deleted"
)

// BookingEvent is published to the booking topic after a write commits.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	RoomID     *string   `json:"room_id"`
	Status     string    `json:"status,omitempty"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, booking model.Booking, actor string) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		Status:     string(booking.Status),
		Actor:      actor,
		OccurredAt: timezone.Now(),
	}
}
