package dto_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/shared/constant"
	"hotel/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/rooms", body)
	req.Header.Set(constant.RequestHeaderContentType, writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(constant.RequestMaxMemory))

	return req
}

func TestCreateRoomRequest_FromForm(t *testing.T) {
	req := formRequest(t, map[string]string{
		"room_number":   " 301 ",
		"room_name":     "Suite Room",
		"room_type":     "Suite",
		"price":         "420.50",
		"max_occupancy": "4",
		"amenities":     `["jacuzzi"]`,
	})

	create := dto.CreateRoomRequest{}
	require.NoError(t, create.FromForm(req))

	assert.Equal(t, "301", create.RoomNumber)
	assert.InDelta(t, 420.5, create.Price, 0.001)
	assert.Equal(t, 4, create.MaxOccupancy)
	assert.Nil(t, create.Header)

	room := create.ToModel("admin-1", "")
	assert.Equal(t, `["jacuzzi"]`, room.Amenities.String())
	assert.True(t, room.IsAvailable)
}

func TestCreateRoomRequest_FromFormRejectsBadNumbers(t *testing.T) {
	req := formRequest(t, map[string]string{"price": "cheap"})

	err := (&dto.CreateRoomRequest{}).FromForm(req)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.EqualError(t, err, "price must be a number")
}

func TestUpdateRoomRequest_FromForm(t *testing.T) {
	req := formRequest(t, map[string]string{
		"status":        "occupied",
		"max_occupancy": "3",
	})

	update := dto.UpdateRoomRequest{}
	require.NoError(t, update.FromForm(req))

	assert.False(t, update.IsEmpty())
	assert.Nil(t, update.Price)
	require.NotNil(t, update.MaxOccupancy)
	assert.Equal(t, 3, *update.MaxOccupancy)

	update.ResolveStatus()
	require.NotNil(t, update.IsAvailable)
	assert.False(t, *update.IsAvailable)
}

func TestUpdateRoomRequest_FromFormRejectsBadAmenities(t *testing.T) {
	req := formRequest(t, map[string]string{"amenities": "{wifi"})

	err := (&dto.UpdateRoomRequest{}).FromForm(req)

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestUpdateRoomRequest_IsEmpty(t *testing.T) {
	assert.True(t, (&dto.UpdateRoomRequest{}).IsEmpty())
	assert.False(t, (&dto.UpdateRoomRequest{Status: model.StatusAvailable}).IsEmpty())
}

func TestImage_ObjectName(t *testing.T) {
	assert.Empty(t, (&dto.Image{}).ObjectName())

	image := dto.Image{Header: &multipart.FileHeader{Filename: "Lobby.JPG"}}
	assert.Regexp(t, `^[0-9a-f-]{36}\.jpg$`, image.ObjectName())
}
