package shared

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
	"hotel/shared/validator"

	"github.com/rs/zerolog/log"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func ConvertStringToInt(value string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(value)) //nolint:wrapcheck
}

func ConvertStringToFloat(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64) //nolint:wrapcheck
}

func CalculateTotalPage(total, limit int) int {
	if total == 0 || limit <= 0 {
		return 1
	}

	return int(math.Ceil(float64(total) / float64(limit)))
}

// TransformFields maps every non zero, db tagged field of data to its column
// and stamps the modification audit columns.
func TransformFields(data any, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		column := typ.Field(index).Tag.Get("db")
		if column == "" || column == "-" {
			continue
		}

		updatedFields[column] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// ValidateID rejects path ids that are not UUIDs. No row can carry such an
// id, so it is reported as NotFound for resource.
func ValidateID(id, resource string) error {
	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		return failure.NotFound(resource + " not found") // nolint:wrapcheck
	}

	return nil
}

// ValidateQueryID rejects a non-empty id filter that is not a UUID.
func ValidateQueryID(id, field string) error {
	if id == constant.Empty {
		return nil
	}

	if err := validator.ValidateVar(id, "uuid"); err != nil {
		return failure.BadRequestFromString(field + " must be a valid UUID") // nolint:wrapcheck
	}

	return nil
}
