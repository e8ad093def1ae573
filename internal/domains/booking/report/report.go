package report

import (
	"bytes"
	"fmt"

	"hotel/internal/domains/booking/model/dto"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Bookings"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultSheet = "Sheet1"
)

type column struct {
	header string
	width  float64
	value  func(b dto.BookingResponse) any
}

func deref(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}

var columns = []column{
	{"Booking ID", 38, func(b dto.BookingResponse) any { return b.ID }},
	{"Room", 10, func(b dto.BookingResponse) any { return deref(b.RoomNumber) }},
	{"Room Name", 22, func(b dto.BookingResponse) any { return deref(b.RoomName) }},
	{"Room Type", 12, func(b dto.BookingResponse) any { return deref(b.RoomType) }},
	{"Customer", 24, func(b dto.BookingResponse) any { return b.CustomerName }},
	{"Email", 28, func(b dto.BookingResponse) any { return b.CustomerEmail }},
	{"Phone", 16, func(b dto.BookingResponse) any { return b.CustomerPhone }},
	{"Check In", 12, func(b dto.BookingResponse) any { return b.CheckIn }},
	{"Check Out", 12, func(b dto.BookingResponse) any { return b.CheckOut }},
	{"Nights", 8, func(b dto.BookingResponse) any { return b.Nights }},
	{"Guests", 8, func(b dto.BookingResponse) any { return b.Guests }},
	{"Total Amount", 14, func(b dto.BookingResponse) any { return b.TotalAmount }},
	{"Payment Method", 16, func(b dto.BookingResponse) any { return b.PaymentMethod }},
	{"Payment Status", 16, func(b dto.BookingResponse) any { return b.PaymentStatus }},
	{"Status", 12, func(b dto.BookingResponse) any { return b.Status }},
}

// Headers returns the column titles in sheet order.
func Headers() []string {
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.header
	}

	return headers
}

// Bookings renders bookings as an xlsx workbook with a frozen header row.
func Bookings(bookings []dto.BookingResponse) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if _, err := file.NewSheet(SheetName); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := file.DeleteSheet(defaultSheet); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	index, err := file.GetSheetIndex(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to find sheet: %w", err)
	}

	file.SetActiveSheet(index)

	if err = writeHeader(file); err != nil {
		return nil, err
	}

	for i, booking := range bookings {
		for j, col := range columns {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}

			if err = file.SetCellValue(SheetName, cell, col.value(booking)); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	err = file.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err = file.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func writeHeader(file *excelize.File) error {
	style, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}

		cell := name + "1"

		if err = file.SetCellValue(SheetName, cell, col.header); err != nil {
			return fmt.Errorf("failed to set header %s: %w", cell, err)
		}

		if err = file.SetCellStyle(SheetName, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style header %s: %w", cell, err)
		}

		if err = file.SetColWidth(SheetName, name, name, col.width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", name, err)
		}
	}

	return nil
}
