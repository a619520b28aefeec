package models

import (
	"errors"
	"math"
	"testing"
)

func TestNewObservation(t *testing.T) {
	obs, err := NewObservation(" 2024-05 ", 12.5)
	if err != nil {
		t.Fatalf("NewObservation() failed: %v", err)
	}
	if obs.Date.String() != "2024-05" {
		t.Errorf("Date = %s, want 2024-05", obs.Date)
	}
	if obs.Value != 12.5 {
		t.Errorf("Value = %v, want 12.5", obs.Value)
	}
	if obs.ID != 0 {
		t.Errorf("ID = %d, want 0 before insert", obs.ID)
	}
}

func TestNewObservation_ZeroValueAllowed(t *testing.T) {
	if _, err := NewObservation("2024-05", 0); err != nil {
		t.Errorf("zero value should be accepted, got %v", err)
	}
}

func TestNewObservation_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		value   float64
		wantErr error
		field   string
	}{
		{"EmptyDate", "", 1, ErrInvalidDate, "date"},
		{"BadFormat", "05/2024", 1, ErrInvalidDate, "date"},
		{"FullDate", "2024-05-01", 1, ErrInvalidDate, "date"},
		{"NaN", "2024-05", math.NaN(), ErrInvalidValue, "value"},
		{"Inf", "2024-05", math.Inf(1), ErrInvalidValue, "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewObservation(tt.date, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error should be a *ValidationError, got %T", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestValues(t *testing.T) {
	obs := []Observation{
		{Date: MustParseMonth("2024-01"), Value: 1},
		{Date: MustParseMonth("2024-02"), Value: 2},
	}
	got := Values(obs)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Values() = %v, want [1 2]", got)
	}
}

func TestLastMonth(t *testing.T) {
	if _, ok := LastMonth(nil); ok {
		t.Error("LastMonth(nil) should report false")
	}
	obs := []Observation{
		{Date: MustParseMonth("2024-01")},
		{Date: MustParseMonth("2024-03")},
	}
	last, ok := LastMonth(obs)
	if !ok || last.String() != "2024-03" {
		t.Errorf("LastMonth() = %s, %v; want 2024-03, true", last, ok)
	}
}

func TestNewForecastPoints(t *testing.T) {
	points := NewForecastPoints(MustParseMonth("2024-03"), []float64{10, 11})
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Date.String() != "2024-04" || points[1].Date.String() != "2024-05" {
		t.Errorf("dates = %s, %s; want 2024-04, 2024-05", points[0].Date, points[1].Date)
	}

	r := &ForecastResult{Points: points}
	if v := r.Values(); len(v) != 2 || v[1] != 11 {
		t.Errorf("Values() = %v", v)
	}
	if r.HasData() {
		t.Error("HasData should be false without observations")
	}
}
