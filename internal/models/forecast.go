package models

// ForecastPoint is a single predicted value for a future month.
type ForecastPoint struct {
	Date  Month
	Value float64
}

// ForecastResult bundles the observations a forecast was fitted on with
// the predicted points.
type ForecastResult struct {
	Observations []Observation
	Points       []ForecastPoint
	Horizon      int
}

// HasData returns true if there are observations to display.
func (r *ForecastResult) HasData() bool {
	return r != nil && len(r.Observations) > 0
}

// Values returns the predicted values in order.
func (r *ForecastResult) Values() []float64 {
	if r == nil {
		return nil
	}
	values := make([]float64, len(r.Points))
	for i, p := range r.Points {
		values[i] = p.Value
	}
	return values
}

// NewForecastPoints pairs predicted values with the months that follow last.
func NewForecastPoints(last Month, values []float64) []ForecastPoint {
	months := MonthsFrom(last.Next(), len(values))
	points := make([]ForecastPoint, len(values))
	for i, v := range values {
		points[i] = ForecastPoint{Date: months[i], Value: v}
	}
	return points
}
