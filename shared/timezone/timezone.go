// Package timezone holds the application location set from APP_TIMEZONE.
package timezone

import (
	"time"

	"hotel/config"

	"github.com/rs/zerolog/log"
)

var appLocation = time.UTC

func init() {
	Load(config.Get().App.Timezone)
}

// Load sets the application location from an IANA name. An empty or unknown
// name keeps UTC.
func Load(name string) {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		appLocation = time.UTC

		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		appLocation = time.UTC

		return
	}

	appLocation = loc

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(appLocation)
}

func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

func GetLocation() *time.Location {
	return appLocation
}

// Parse interprets value in the application timezone. Stay dates such as
// 2026-03-01 are parsed with this.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}

	return ToAppTime(t).Format(layout)
}

// FormatDate renders a calendar date in the zone it carries. DATE columns come
// back from the driver as midnight UTC, so converting them would move the day.
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(layout)
}
