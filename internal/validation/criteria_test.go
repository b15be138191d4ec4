package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

func TestCriteriaValidator_Valid(t *testing.T) {
	tests := []struct {
		name string
		req  CriteriaRequest
		want domain.FilterCriteria
	}{
		{
			name: "all filters",
			req:  CriteriaRequest{City: "Chicago", Month: "March", Day: "friday"},
			want: domain.FilterCriteria{City: domain.CityChicago, Month: domain.Month(time.March), Day: domain.Friday},
		},
		{
			name: "no filter tokens",
			req:  CriteriaRequest{City: "new york city", Month: "all", Day: "No Filter"},
			want: domain.FilterCriteria{City: domain.CityNewYorkCity, Month: domain.AnyMonth, Day: domain.AnyDay},
		},
		{
			name: "slug and empty filters",
			req:  CriteriaRequest{City: "new-york-city"},
			want: domain.FilterCriteria{City: domain.CityNewYorkCity, Month: domain.AnyMonth, Day: domain.AnyDay},
		},
		{
			name: "whitespace",
			req:  CriteriaRequest{City: "  washington ", Month: " june ", Day: " SUNDAY"},
			want: domain.FilterCriteria{City: domain.CityWashington, Month: domain.Month(time.June), Day: domain.Sunday},
		},
	}

	v := NewCriteriaValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCriteriaValidator_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		req        CriteriaRequest
		wantFields []string
	}{
		{"missing city", CriteriaRequest{Month: "march"}, []string{"city"}},
		{"unknown city", CriteriaRequest{City: "Boston"}, []string{"city"}},
		{"month out of range", CriteriaRequest{City: "chicago", Month: "july"}, []string{"month"}},
		{"unknown day", CriteriaRequest{City: "chicago", Day: "funday"}, []string{"day"}},
		{"everything wrong", CriteriaRequest{City: "paris", Month: "13", Day: "x"}, []string{"city", "month", "day"}},
	}

	v := NewCriteriaValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apierrors.ErrValidation))

			var appErr *apierrors.AppError
			require.ErrorAs(t, err, &appErr)
			details, ok := appErr.Context["errors"].([]apierrors.ValidationError)
			require.True(t, ok)

			fields := make([]string, len(details))
			for i, d := range details {
				fields[i] = d.Field
				assert.NotEmpty(t, d.Message)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestCriteriaValidator_MessagesListChoices(t *testing.T) {
	_, err := NewCriteriaValidator().ValidateValues("chicago", "december", "all")
	require.Error(t, err)

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	details := appErr.Context["errors"].([]apierrors.ValidationError)
	require.Len(t, details, 1)
	assert.Contains(t, details[0].Message, "January")
	assert.Contains(t, details[0].Message, "June")
	assert.Equal(t, "december", details[0].Value)
}
