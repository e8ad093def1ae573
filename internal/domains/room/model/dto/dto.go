package dto

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

const emptyAmenities = "[]"

// Image is an uploaded room picture. File is closed by the handler.
type Image struct {
	Header *multipart.FileHeader `json:"image" form:"image" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	File   multipart.File        `json:"-"`
}

// ObjectName is a fresh name for the upload that keeps the original extension.
func (i *Image) ObjectName() string {
	if i.Header == nil {
		return constant.Empty
	}

	return uuid.NewString() + strings.ToLower(path.Ext(i.Header.Filename))
}

func (i *Image) ContentType() string {
	return i.Header.Header.Get(constant.RequestHeaderContentType)
}

func (i *Image) fromForm(r *http.Request) {
	file, header, err := r.FormFile(constant.FormFileImage)
	if err != nil {
		return
	}

	i.Header = header
	i.File = file
}

type CreateRoomRequest struct {
	RoomNumber   string  `form:"room_number"   json:"room_number"   validate:"required,max=10"                          example:"101"`
	RoomName     string  `form:"room_name"     json:"room_name"     validate:"required,max=100"                         example:"Classic Room"`
	RoomType     string  `form:"room_type"     json:"room_type"     validate:"required,oneof=Classic Deluxe Suite"      example:"Classic"`
	Description  string  `form:"description"   json:"description"   validate:"omitempty,max=1000"`
	Price        float64 `form:"price"         json:"price"         validate:"required,gt=0"                            example:"150"`
	MaxOccupancy int     `form:"max_occupancy" json:"max_occupancy" validate:"omitempty,min=1,max=10"`
	Amenities    string  `form:"amenities"     json:"amenities"     validate:"omitempty,json"                           example:"[\"wifi\",\"tv\"]"`
	Image
}

// FromForm reads a multipart room form. Malformed numbers are rejected here,
// everything else is left to validation.
func (c *CreateRoomRequest) FromForm(r *http.Request) (err error) {
	c.RoomNumber = strings.TrimSpace(r.FormValue(model.FieldRoomNumber))
	c.RoomName = strings.TrimSpace(r.FormValue("room_name"))
	c.RoomType = r.FormValue(model.FieldRoomType)
	c.Description = r.FormValue("description")
	c.Amenities = r.FormValue("amenities")

	if c.Price, err = formFloat(r, "price"); err != nil {
		return err
	}

	if c.MaxOccupancy, err = formInt(r, model.FieldMaxOccupancy); err != nil {
		return err
	}

	c.Image.fromForm(r)

	return nil
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	maxOccupancy := c.MaxOccupancy
	if maxOccupancy == 0 {
		maxOccupancy = model.DefaultMaxOccupancy
	}

	amenities := c.Amenities
	if amenities == constant.Empty {
		amenities = emptyAmenities
	}

	return model.Room{
		ID:           uuid.NewString(),
		RoomNumber:   c.RoomNumber,
		RoomName:     c.RoomName,
		RoomType:     c.RoomType,
		Description:  c.Description,
		Price:        c.Price,
		IsAvailable:  true,
		MaxOccupancy: maxOccupancy,
		Amenities:    types.JSONText(amenities),
		ImageURL:     imageURL,
		Metadata:     gModel.NewMetadata(user, timezone.Now()),
	}
}

// UpdateRoomRequest is a partial update. Status is the request facing name of
// the availability flag and is resolved into IsAvailable by the service.
type UpdateRoomRequest struct {
	RoomNumber   string         `db:"room_number"   form:"room_number"   json:"room_number"   validate:"omitempty,max=10"`
	RoomName     string         `db:"room_name"     form:"room_name"     json:"room_name"     validate:"omitempty,max=100"`
	RoomType     string         `db:"room_type"     form:"room_type"     json:"room_type"     validate:"omitempty,oneof=Classic Deluxe Suite"`
	Description  string         `db:"description"   form:"description"   json:"description"   validate:"omitempty,max=1000"`
	Price        *float64       `db:"price"         form:"price"         json:"price"         validate:"omitempty,gt=0"`
	MaxOccupancy *int           `db:"max_occupancy" form:"max_occupancy" json:"max_occupancy" validate:"omitempty,min=1,max=10"`
	Amenities    types.JSONText `db:"amenities"     form:"amenities"     json:"amenities"     validate:"omitempty"`
	Status       string         `form:"status"      json:"status"        validate:"omitempty,oneof=available occupied"`
	IsAvailable  *bool          `db:"is_available"  json:"-"`
	Image
}

func (u *UpdateRoomRequest) FromForm(r *http.Request) error {
	u.RoomNumber = strings.TrimSpace(r.FormValue(model.FieldRoomNumber))
	u.RoomName = strings.TrimSpace(r.FormValue("room_name"))
	u.RoomType = r.FormValue(model.FieldRoomType)
	u.Description = r.FormValue("description")
	u.Status = r.FormValue("status")

	if raw := r.FormValue("amenities"); raw != constant.Empty {
		if !json.Valid([]byte(raw)) {
			return failure.BadRequestFromString("amenities must be a valid JSON document") //nolint:wrapcheck
		}

		u.Amenities = types.JSONText(raw)
	}

	if r.FormValue("price") != constant.Empty {
		price, err := formFloat(r, "price")
		if err != nil {
			return err
		}

		u.Price = &price
	}

	if r.FormValue(model.FieldMaxOccupancy) != constant.Empty {
		occupancy, err := formInt(r, model.FieldMaxOccupancy)
		if err != nil {
			return err
		}

		u.MaxOccupancy = &occupancy
	}

	u.Image.fromForm(r)

	return nil
}

// ResolveStatus maps Status onto the availability flag.
func (u *UpdateRoomRequest) ResolveStatus() {
	if available, ok := model.ParseAvailability(u.Status); ok {
		u.IsAvailable = &available
	}
}

func (u *UpdateRoomRequest) IsEmpty() bool {
	return u.RoomNumber == constant.Empty && u.RoomName == constant.Empty && u.RoomType == constant.Empty &&
		u.Description == constant.Empty && u.Price == nil && u.MaxOccupancy == nil &&
		len(u.Amenities) == 0 && u.Status == constant.Empty && u.Header == nil
}

func formFloat(r *http.Request, key string) (float64, error) {
	raw := r.FormValue(key)
	if raw == constant.Empty {
		return 0, nil
	}

	value, err := shared.ConvertStringToFloat(raw)
	if err != nil {
		return 0, failure.BadRequestFromString(fmt.Sprintf("%s must be a number", key)) //nolint:wrapcheck
	}

	return value, nil
}

func formInt(r *http.Request, key string) (int, error) {
	raw := r.FormValue(key)
	if raw == constant.Empty {
		return 0, nil
	}

	value, err := shared.ConvertStringToInt(raw)
	if err != nil {
		return 0, failure.BadRequestFromString(fmt.Sprintf("%s must be a whole number", key)) //nolint:wrapcheck
	}

	return value, nil
}

type CreateRoomResponse struct {
	ID string `json:"id"`
}

type RoomResponse struct {
	ID           string         `json:"id"`
	RoomNumber   string         `json:"room_number"`
	RoomName     string         `json:"room_name"`
	RoomType     string         `json:"room_type"`
	Description  string         `json:"description"`
	Price        float64        `json:"price"`
	IsAvailable  bool           `json:"is_available"`
	Status       string         `json:"status"`
	MaxOccupancy int            `json:"max_occupancy"`
	Amenities    types.JSONText `json:"amenities"     swaggertype:"array,string"`
	ImageURL     string         `json:"image_url"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(room model.Room) {
	r.ID = room.ID
	r.RoomNumber = room.RoomNumber
	r.RoomName = room.RoomName
	r.RoomType = room.RoomType
	r.Description = room.Description
	r.Price = room.Price
	r.IsAvailable = room.IsAvailable
	r.Status = model.AvailabilityStatus(room.IsAvailable)
	r.MaxOccupancy = room.MaxOccupancy
	r.Amenities = room.Amenities
	r.ImageURL = room.ImageURL
	r.Metadata.FromModel(room.Metadata)

	if len(r.Amenities) == 0 {
		r.Amenities = types.JSONText(emptyAmenities)
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
