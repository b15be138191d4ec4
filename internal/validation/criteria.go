package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

// CriteriaRequest is the raw user selection for one query cycle.
type CriteriaRequest struct {
	City  string `json:"city" validate:"required,city"`
	Month string `json:"month" validate:"month"`
	Day   string `json:"day" validate:"weekday"`
}

// CriteriaValidator checks raw criteria and converts them to domain values.
type CriteriaValidator struct {
	validate *validator.Validate
}

// NewCriteriaValidator creates a validator with the bikeshare rules registered.
func NewCriteriaValidator() *CriteriaValidator {
	v := validator.New()

	v.RegisterValidation("city", isCity)
	v.RegisterValidation("month", isMonth)
	v.RegisterValidation("weekday", isWeekday)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &CriteriaValidator{validate: v}
}

func isCity(fl validator.FieldLevel) bool {
	_, err := domain.ParseCity(fl.Field().String())
	return err == nil
}

func isMonth(fl validator.FieldLevel) bool {
	_, err := domain.ParseMonth(fl.Field().String())
	return err == nil
}

func isWeekday(fl validator.FieldLevel) bool {
	_, err := domain.ParseWeekday(fl.Field().String())
	return err == nil
}

// Validate checks req and returns the criteria it describes. On failure the
// error is a VALIDATION AppError listing every failing field.
func (v *CriteriaValidator) Validate(req CriteriaRequest) (domain.FilterCriteria, error) {
	if err := v.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return domain.FilterCriteria{}, apierrors.NewAppValidationError(err.Error())
		}

		details := make([]apierrors.ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, apierrors.ValidationError{
				Field:   fe.Field(),
				Value:   fmt.Sprint(fe.Value()),
				Message: formatFieldError(fe),
			})
		}
		return domain.FilterCriteria{}, apierrors.NewAppValidationError("invalid filter criteria", details...)
	}

	// Parsing cannot fail once the struct has validated.
	city, _ := domain.ParseCity(req.City)
	month, _ := domain.ParseMonth(req.Month)
	day, _ := domain.ParseWeekday(req.Day)
	return domain.NewFilterCriteria(city, month, day), nil
}

// ValidateValues is Validate for separate city, month and day values.
func (v *CriteriaValidator) ValidateValues(city, month, day string) (domain.FilterCriteria, error) {
	return v.Validate(CriteriaRequest{City: city, Month: month, Day: day})
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "city":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(CityChoices(), ", "))
	case "month":
		return fmt.Sprintf("%s must be one of: %s, or all", fe.Field(), strings.Join(domain.SupportedMonths(), ", "))
	case "weekday":
		return fmt.Sprintf("%s must be one of: %s, or all", fe.Field(), strings.Join(domain.Weekdays(), ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// CityChoices returns the display names of the supported cities.
func CityChoices() []string {
	names := make([]string, len(domain.Cities))
	for i, c := range domain.Cities {
		names[i] = c.Title()
	}
	return names
}
