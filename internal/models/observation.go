package models

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidDate is returned when a date is not in YYYY-MM form.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidValue is returned when a value is NaN or infinite.
	ErrInvalidValue = errors.New("invalid value")
)

var validate = validator.New()

// Observation is one persisted (date, value) pair of the series.
type Observation struct {
	ID    int64
	Date  Month
	Value float64
}

// observationInput holds raw user input before it becomes an Observation.
type observationInput struct {
	Date string `validate:"required,datetime=2006-01"`
}

// ValidationError describes rejected user input.
type ValidationError struct {
	Field  string
	Input  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Input, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// NewObservation validates raw input and returns an Observation ready to store.
func NewObservation(date string, value float64) (Observation, error) {
	month, err := ValidateDate(date)
	if err != nil {
		return Observation{}, err
	}
	if err := ValidateValue(value); err != nil {
		return Observation{}, err
	}
	return Observation{Date: month, Value: value}, nil
}

// ValidateDate checks that date is in YYYY-MM form and returns the parsed month.
func ValidateDate(date string) (Month, error) {
	date = strings.TrimSpace(date)
	if err := validate.Struct(observationInput{Date: date}); err != nil {
		return Month{}, &ValidationError{Field: "date", Input: date, Reason: ErrInvalidDate}
	}
	month, err := ParseMonth(date)
	if err != nil {
		return Month{}, &ValidationError{Field: "date", Input: date, Reason: ErrInvalidDate}
	}
	return month, nil
}

// ValidateValue rejects NaN and infinite values.
func ValidateValue(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &ValidationError{Field: "value", Input: fmt.Sprint(value), Reason: ErrInvalidValue}
	}
	return nil
}

// Values extracts the value column of observations, preserving order.
func Values(observations []Observation) []float64 {
	values := make([]float64, len(observations))
	for i, o := range observations {
		values[i] = o.Value
	}
	return values
}

// LastMonth returns the latest month among observations, assumed sorted
// ascending, and false when there are none.
func LastMonth(observations []Observation) (Month, bool) {
	if len(observations) == 0 {
		return Month{}, false
	}
	return observations[len(observations)-1].Date, true
}
