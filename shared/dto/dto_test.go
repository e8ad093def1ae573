package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	modified := created.Add(2 * time.Hour)

	meta := dto.Metadata{}
	meta.FromModel(model.Metadata{
		CreatedAt:  created,
		ModifiedAt: modified,
		CreatedBy:  "frontdesk",
		ModifiedBy: "manager",
	})

	assert.NotEmpty(t, meta.CreatedAt)
	assert.NotEmpty(t, meta.ModifiedAt)
	assert.Equal(t, "frontdesk", meta.CreatedBy)
	assert.Equal(t, "manager", meta.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		expected     dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "page=2&limit=20&sort_by=room_number&sort_dir=desc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "room_number", SortDir: dto.SortDirDesc},
		},
		{
			name:         "defaults applied",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults leaves zero values",
			expected: dto.QueryParams{},
		},
		{
			name:         "invalid numbers fall back",
			query:        "page=abc&limit=-5",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "unknown sort direction ignored",
			query:    "sort_by=price&sort_dir=up",
			expected: dto.QueryParams{SortBy: "price"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/rooms?"+tt.query, nil)

			params := dto.QueryParams{}
			params.FromRequest(req, tt.withDefaults)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestQueryParams_WithDefaultSort(t *testing.T) {
	params := dto.QueryParams{}
	params.WithDefaultSort("created_at", dto.SortDirDesc)
	assert.Equal(t, "created_at", params.SortBy)
	assert.Equal(t, dto.SortDirDesc, params.SortDir)

	params = dto.QueryParams{SortBy: "price", SortDir: dto.SortDirAsc}
	params.WithDefaultSort("created_at", dto.SortDirDesc)
	assert.Equal(t, "price", params.SortBy)
	assert.Equal(t, dto.SortDirAsc, params.SortDir)
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table",
			filter:    dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq, Table: "bookings"},
			wantWhere: "bookings.status = :status",
			wantArgs:  map[string]any{"status": "pending"},
		},
		{
			name:      "not eq with arg name",
			filter:    dto.Filter{ArgName: "exclude_id", Field: "id", Value: "b-1", Operator: dto.FilterOperatorNotEq},
			wantWhere: "id <> :exclude_id",
			wantArgs:  map[string]any{"exclude_id": "b-1"},
		},
		{
			name:      "like",
			filter:    dto.Filter{Field: "room_name", Value: "Suite", Operator: dto.FilterOperatorLike},
			wantWhere: "LOWER(room_name) LIKE LOWER(:room_name)",
			wantArgs:  map[string]any{"room_name": "%Suite%"},
		},
		{
			name:      "in",
			filter:    dto.Filter{Field: "status", Value: []string{"pending", "confirmed"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:      "in with empty slice renders nothing",
			filter:    dto.Filter{Field: "status", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "room_id", Operator: dto.FilterIsNull, Table: "bookings"},
			wantWhere: "bookings.room_id IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "x", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.And(
		dto.Filter{Field: "room_id", Value: "r-1", Operator: dto.FilterOperatorEq},
		nil,
		dto.FilterGroup{
			Operator: dto.FilterGroupOperatorOr,
			Filters: []any{
				dto.Filter{ArgName: "s1", Field: "status", Value: "pending", Operator: dto.FilterOperatorEq},
				dto.Filter{ArgName: "s2", Field: "status", Value: "confirmed", Operator: dto.FilterOperatorEq},
			},
		},
	)

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_id = :room_id AND (status = :s1 OR status = :s2))", where)
	assert.Equal(t, map[string]any{"room_id": "r-1", "s1": "pending", "s2": "confirmed"}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)
}
