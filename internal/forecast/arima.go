// Package forecast fits a fixed-order ARIMA(1,1,1) model to a monthly series
// and produces point forecasts.
package forecast

import (
	"math"
)

const (
	// MinObservations is the shortest series Fit accepts.
	MinObservations = 3

	maxIter   = 500
	tolerance = 1e-10
	coeffMax  = 0.99
)

// Order represents ARIMA model order (p, d, q).
type Order struct {
	P int // AR order
	D int // Differencing order
	Q int // MA order
}

// DefaultOrder is the only order this package fits.
var DefaultOrder = Order{P: 1, D: 1, Q: 1}

// Model is an ARIMA(1,1,1) model without constant, estimated by conditional
// sum of squares on the scaled first differences. Forecasts of a trending
// series level off as the AR term decays.
type Model struct {
	Order    Order
	AR       float64 // phi
	MA       float64 // theta
	Variance float64 // residual variance on the differenced scale

	fitted    bool
	data      []float64
	scale     float64   // root mean square of the differences
	z         []float64 // differences divided by scale
	residuals []float64 // innovations of z
}

// New creates an unfitted ARIMA(1,1,1) model.
func New() *Model {
	return &Model{Order: DefaultOrder}
}

// Forecast fits ARIMA(1,1,1) to series and returns steps point forecasts.
func Forecast(series []float64, steps int) ([]float64, error) {
	if steps < 1 {
		return nil, ErrInvalidHorizon
	}
	m := New()
	if err := m.Fit(series); err != nil {
		return nil, err
	}
	return m.Predict(steps)
}

// Fit estimates the model coefficients from series.
func (m *Model) Fit(series []float64) error {
	if err := checkSeries(series); err != nil {
		return err
	}

	m.data = append([]float64(nil), series...)

	diff := difference(series)
	m.scale = rms(diff)

	m.z = make([]float64, len(diff))
	for i, v := range diff {
		m.z[i] = v / m.scale
	}
	m.AR = clamp(lag1Autocorrelation(m.z))
	m.MA = 0.1
	m.optimizeCSS()

	m.residuals, _ = m.innovations(m.AR, m.MA)
	sse := 0.0
	for _, e := range m.residuals {
		sse += e * e
	}
	m.Variance = sse * m.scale * m.scale / float64(len(m.residuals))

	m.fitted = true
	return nil
}

// Predict returns steps forecasts on the original scale.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, ErrInvalidHorizon
	}

	n := len(m.z)
	prevZ := m.z[n-1]
	prevE := m.residuals[n-1]

	forecasts := make([]float64, steps)
	level := m.data[len(m.data)-1]
	for h := range steps {
		z := m.AR * prevZ
		if h == 0 {
			// Future innovations have expectation zero.
			z += m.MA * prevE
		}
		level += m.scale * z
		if math.IsInf(level, 0) {
			return nil, &InsufficientDataError{Count: len(m.data), Reason: "forecast exceeds the float64 range"}
		}
		forecasts[h] = level
		prevZ = z
	}

	return forecasts, nil
}

// Residuals returns the in-sample innovations on the differenced scale.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	out := make([]float64, len(m.residuals))
	for i, e := range m.residuals {
		out[i] = e * m.scale
	}
	return out
}

// optimizeCSS minimizes the conditional sum of squares with projected
// gradient descent and step halving.
func (m *Model) optimizeCSS() {
	phi, theta := m.AR, m.MA
	_, sse := m.innovations(phi, theta)
	rate := 0.1

	for range maxIter {
		gPhi, gTheta := m.gradient(phi, theta)
		if gPhi == 0 && gTheta == 0 {
			break
		}

		improved := false
		for rate > 1e-8 {
			nextPhi := clamp(phi - rate*gPhi)
			nextTheta := clamp(theta - rate*gTheta)
			_, nextSSE := m.innovations(nextPhi, nextTheta)
			if nextSSE < sse {
				improved = sse-nextSSE > tolerance
				phi, theta, sse = nextPhi, nextTheta, nextSSE
				break
			}
			rate /= 2
		}
		if !improved {
			break
		}
		rate *= 2
	}

	m.AR, m.MA = phi, theta
}

// innovations runs the ARMA(1,1) recursion e_t = z_t - phi*z_{t-1} - theta*e_{t-1}
// conditioned on e_0 = 0 and returns the innovations and their sum of squares.
func (m *Model) innovations(phi, theta float64) ([]float64, float64) {
	e := make([]float64, len(m.z))
	sse := 0.0
	for t := 1; t < len(m.z); t++ {
		e[t] = m.z[t] - phi*m.z[t-1] - theta*e[t-1]
		sse += e[t] * e[t]
	}
	return e, sse
}

// gradient returns the partial derivatives of the sum of squares with
// respect to phi and theta, averaged over the conditional sample.
func (m *Model) gradient(phi, theta float64) (float64, float64) {
	e, _ := m.innovations(phi, theta)
	var dPhi, dTheta, gPhi, gTheta float64
	for t := 1; t < len(m.z); t++ {
		dPhi = -m.z[t-1] - theta*dPhi
		dTheta = -e[t-1] - theta*dTheta
		gPhi += 2 * e[t] * dPhi
		gTheta += 2 * e[t] * dTheta
	}
	count := float64(len(m.z) - 1)
	return gPhi / count, gTheta / count
}

func checkSeries(series []float64) error {
	if len(series) < MinObservations {
		return &InsufficientDataError{Count: len(series), Reason: "need at least 3 observations"}
	}
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InsufficientDataError{Count: len(series), Reason: "series contains non-finite values"}
		}
	}
	if allEqual(series) {
		return &InsufficientDataError{Count: len(series), Reason: "series has zero variance"}
	}
	for _, d := range difference(series) {
		if math.IsInf(d, 0) {
			return &InsufficientDataError{Count: len(series), Reason: "differences exceed the float64 range"}
		}
	}
	return nil
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func difference(values []float64) []float64 {
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

// rms is the root mean square of values, scaled by the largest magnitude so
// that squaring cannot overflow.
func rms(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		r := v / peak
		sum += r * r
	}
	return peak * math.Sqrt(sum/float64(len(values)))
}

// lag1Autocorrelation is the uncentred Yule-Walker AR(1) estimate. The model
// has no mean term, so z is not centred first.
func lag1Autocorrelation(z []float64) float64 {
	var num, den float64
	for i, v := range z {
		den += v * v
		if i > 0 {
			num += v * z[i-1]
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func clamp(v float64) float64 {
	return math.Max(-coeffMax, math.Min(coeffMax, v))
}
