package report_test

import (
	"bytes"
	"testing"

	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func strPtr(s string) *string {
	return &s
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)

	t.Cleanup(func() { _ = file.Close() })

	return file
}

func TestBookings(t *testing.T) {
	bookings := []dto.BookingResponse{
		{
			ID:            "booking-1",
			RoomNumber:    strPtr("101"),
			RoomName:      strPtr("Classic Room"),
			CustomerName:  "Ana Silva",
			CustomerEmail: "ana@example.com",
			CheckIn:       "2026-03-01",
			CheckOut:      "2026-03-03",
			Nights:        2,
			Guests:        1,
			TotalAmount:   2400,
			PaymentMethod: "credit_card",
			PaymentStatus: "paid",
			Status:        "completed",
		},
		{
			ID:           "booking-2",
			CustomerName: "Room deleted",
			Status:       "cancelled",
		},
	}

	data, err := report.Bookings(bookings)
	require.NoError(t, err)

	file := open(t, data)

	assert.Equal(t, []string{report.SheetName}, file.GetSheetList())

	rows, err := file.GetRows(report.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, report.Headers(), rows[0])
	assert.Equal(t, "booking-1", rows[1][0])
	assert.Equal(t, "101", rows[1][1])
	assert.Equal(t, "2026-03-01", rows[1][7])
	assert.Equal(t, "2400", rows[1][11])
	assert.Equal(t, "completed", rows[1][14])

	assert.Equal(t, "booking-2", rows[2][0])
	assert.Equal(t, "", rows[2][1])
}

func TestBookings_EmptyHasHeaderOnly(t *testing.T) {
	data, err := report.Bookings(nil)
	require.NoError(t, err)

	rows, err := open(t, data).GetRows(report.SheetName)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, report.Headers(), rows[0])
}
