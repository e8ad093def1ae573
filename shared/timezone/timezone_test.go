package timezone_test

import (
	"testing"
	"time"

	"hotel/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Cleanup(func() { timezone.Load("UTC") })

	timezone.Load("Asia/Jakarta")
	assert.Equal(t, "Asia/Jakarta", timezone.GetLocation().String())

	timezone.Load("Mars/Olympus")
	assert.Equal(t, time.UTC, timezone.GetLocation())

	timezone.Load("")
	assert.Equal(t, time.UTC, timezone.GetLocation())
}

func TestParseAndFormat(t *testing.T) {
	t.Cleanup(func() { timezone.Load("UTC") })

	timezone.Load("UTC")

	checkIn, err := timezone.Parse(time.DateOnly, "2026-03-01")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), checkIn)
	assert.Equal(t, "2026-03-01", timezone.Format(checkIn, time.DateOnly))
	assert.Empty(t, timezone.Format(time.Time{}, time.DateOnly))

	_, err = timezone.Parse(time.DateOnly, "03/01/2026")
	assert.Error(t, err)
}

func TestFormatDateKeepsCalendarDay(t *testing.T) {
	t.Cleanup(func() { timezone.Load("UTC") })

	timezone.Load("America/New_York")

	stored := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-01", timezone.FormatDate(stored, time.DateOnly))
	assert.Equal(t, "2026-02-28", timezone.Format(stored, time.DateOnly))
	assert.Empty(t, timezone.FormatDate(time.Time{}, time.DateOnly))
}

func TestNowUsesAppLocation(t *testing.T) {
	t.Cleanup(func() { timezone.Load("UTC") })

	timezone.Load("Europe/London")

	assert.Equal(t, "Europe/London", timezone.Now().Location().String())
	assert.Equal(t, "Europe/London", timezone.ToAppTime(time.Now().UTC()).Location().String())
}
