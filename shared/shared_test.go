package shared_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"hotel/shared"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		input    string
		expected *bool
	}{
		{"", nil},
		{"true", boolPtr(true)},
		{"0", boolPtr(false)},
		{"F", boolPtr(false)},
		{"occupied", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestConvertStringToNumber(t *testing.T) {
	n, err := shared.ConvertStringToInt(" 4 ")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = shared.ConvertStringToInt("four")
	assert.Error(t, err)

	price, err := shared.ConvertStringToFloat("150.50")
	require.NoError(t, err)
	assert.InDelta(t, 150.5, price, 0.0001)
}

func TestCalculateTotalPage(t *testing.T) {
	assert.Equal(t, 1, shared.CalculateTotalPage(0, 10))
	assert.Equal(t, 1, shared.CalculateTotalPage(10, 10))
	assert.Equal(t, 2, shared.CalculateTotalPage(11, 10))
	assert.Equal(t, 1, shared.CalculateTotalPage(5, 0))
}

type roomPatch struct {
	RoomName    string  `db:"room_name"`
	Price       float64 `db:"price"`
	IsAvailable *bool   `db:"is_available"`
	Ignored     string  `db:"-"`
	NoTag       string
	Guests      *int     `db:"guests"`
	Amenities   []string `db:"amenities"`
}

func TestTransformFields(t *testing.T) {
	available := false

	fields := shared.TransformFields(roomPatch{
		RoomName:    "Ocean Suite",
		IsAvailable: &available,
		Ignored:     "x",
		NoTag:       "y",
	}, "admin")

	assert.Equal(t, "Ocean Suite", fields["room_name"])
	assert.Equal(t, &available, fields["is_available"])
	assert.Equal(t, "admin", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
	assert.NotContains(t, fields, "price")
	assert.NotContains(t, fields, "guests")
	assert.NotContains(t, fields, "amenities")
	assert.NotContains(t, fields, "-")
	assert.Len(t, fields, 4)
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID("room-101", "id", "rooms")

	where, args := filter.GetWhereClause()

	assert.Equal(t, "(rooms.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "room-101"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "room", shared.BuildCacheKey("room"))
	assert.Equal(t, "room:get:abc", shared.BuildCacheKey("room", "get", "abc"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	pending := dto.And(dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq})
	confirmed := dto.And(dto.Filter{Field: "status", Value: "confirmed", Operator: dto.FilterOperatorEq})

	first := shared.BuildCacheKeyWithQuery("booking:list", params, pending)

	assert.Equal(t, first, shared.BuildCacheKeyWithQuery("booking:list", params, pending))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("booking:list", params, confirmed))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("booking:list", dto.QueryParams{Page: 2, Limit: 10}, pending))
	assert.Regexp(t, `^booking:list:[0-9a-f]{40}$`, first)
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "booking:*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "booking:")

	mockCache.EXPECT().Clear(gomock.Any(), "room:*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "room:")
}

func boolPtr(b bool) *bool {
	return &b
}

func TestValidateID(t *testing.T) {
	require.NoError(t, shared.ValidateID("6f1d9c52-54a4-4f0a-9a53-2b1f1e0e5101", "room"))

	for _, id := range []string{"", "abc", "101", "6f1d9c52-54a4-4f0a-9a53"} {
		err := shared.ValidateID(id, "room")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err), id)
		assert.EqualError(t, err, "room not found")
	}
}

func TestValidateQueryID(t *testing.T) {
	require.NoError(t, shared.ValidateQueryID("", "room_id"))
	require.NoError(t, shared.ValidateQueryID("6f1d9c52-54a4-4f0a-9a53-2b1f1e0e5101", "room_id"))

	err := shared.ValidateQueryID("101", "room_id")

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.EqualError(t, err, "room_id must be a valid UUID")
}
