package model

import (
	"hotel/shared/model"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID           = "id"
	FieldRoomNumber   = "room_number"
	FieldRoomType     = "room_type"
	FieldIsAvailable  = "is_available"
	FieldMaxOccupancy = "max_occupancy"
	FieldImageURL     = "image_url"
)

const (
	TypeClassic = "Classic"
	TypeDeluxe  = "Deluxe"
	TypeSuite   = "Suite"
)

// Request facing names of the availability flag.
const (
	StatusAvailable = "available"
	StatusOccupied  = "occupied"
)

const DefaultMaxOccupancy = 2

type Room struct {
	ID           string         `db:"id"`
	RoomNumber   string         `db:"room_number"`
	RoomName     string         `db:"room_name"`
	RoomType     string         `db:"room_type"`
	Description  string         `db:"description"`
	Price        float64        `db:"price"`
	IsAvailable  bool           `db:"is_available"`
	MaxOccupancy int            `db:"max_occupancy"`
	Amenities    types.JSONText `db:"amenities"`
	ImageURL     string         `db:"image_url"`
	model.Metadata
}

func AvailabilityStatus(available bool) string {
	if available {
		return StatusAvailable
	}

	return StatusOccupied
}

// ParseAvailability maps available|occupied to the flag. ok is false for any
// other value.
func ParseAvailability(status string) (available, ok bool) {
	switch status {
	case StatusAvailable:
		return true, true
	case StatusOccupied:
		return false, true
	default:
		return false, false
	}
}
