package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is matched by every *InsufficientDataError.
	ErrInsufficientData = errors.New("insufficient data for ARIMA(1,1,1)")
	// ErrInvalidHorizon is returned when fewer than one step is requested.
	ErrInvalidHorizon = errors.New("forecast horizon must be at least 1")
	// ErrNotFitted is returned by Predict before a successful Fit.
	ErrNotFitted = errors.New("model must be fitted before prediction")
)

// InsufficientDataError reports why a series cannot be fitted.
type InsufficientDataError struct {
	Count  int
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%v: %s (%d observations)", ErrInsufficientData, e.Reason, e.Count)
}

// Is lets errors.Is(err, ErrInsufficientData) match.
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
