package analysis

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// EnvelopeConfig controls the Savitzky-Golay smoothing of |samples|.
type EnvelopeConfig struct {
	Window int     // odd filter length in samples
	Order  int     // polynomial order, less than Window
	Gain   float64 // output scale
}

// DefaultEnvelopeConfig is a 2001-sample cubic fit doubled, which puts the
// envelope of typical mastered tracks in roughly [0, 1].
func DefaultEnvelopeConfig() EnvelopeConfig {
	return EnvelopeConfig{Window: 2001, Order: 3, Gain: 2}
}

// Envelope is a smoothed loudness curve with one value per sample.
type Envelope []float64

// At returns the value at i, clamped to the envelope bounds. An empty
// envelope reads as silence.
func (e Envelope) At(i int) float64 {
	if len(e) == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i >= len(e) {
		i = len(e) - 1
	}
	return e[i]
}

// Smooth fits a polynomial of cfg.Order to the cfg.Window samples of |x|
// centered on each sample and evaluates it at the center.
//
// The first and last Window/2 samples have no full window around them. For
// those, one polynomial is fitted to the first (or last) Window samples and
// evaluated at each edge position.
//
// Fits are clamped to [0, peak|x|] before applying the gain, so the result
// lies in [0, Gain*peak].
func Smooth(buf SampleBuffer, cfg EnvelopeConfig) (Envelope, error) {
	if cfg.Window <= 0 || cfg.Window%2 == 0 {
		return nil, analysisErrorf("smooth", "window length %d must be positive and odd", cfg.Window)
	}
	if cfg.Order < 0 || cfg.Order >= cfg.Window {
		return nil, analysisErrorf("smooth", "polynomial order %d must be in [0, %d)", cfg.Order, cfg.Window)
	}
	n := len(buf.Samples)
	if cfg.Window > n {
		return nil, analysisErrorf("smooth", "window length %d exceeds %d samples", cfg.Window, n)
	}

	abs := make([]float64, n)
	peak := 0.0
	for i, s := range buf.Samples {
		abs[i] = math.Abs(s)
		peak = math.Max(peak, abs[i])
	}

	coeffs, err := savgolCoeffs(cfg.Window, cfg.Order)
	if err != nil {
		return nil, &AnalysisError{Op: "smooth", Reason: "computing filter coefficients", Err: err}
	}

	out := convolveSame(abs, coeffs)
	if err := fitEdges(abs, out, cfg.Window, cfg.Order); err != nil {
		return nil, &AnalysisError{Op: "smooth", Reason: "fitting edges", Err: err}
	}

	env := Envelope(out)
	for i, v := range env {
		env[i] = math.Min(math.Max(v, 0), peak) * cfg.Gain
	}
	return env, nil
}

// vandermonde returns the rows [1, x, x^2, ...] for x spread evenly over
// [-1, 1] across window positions. Scaling keeps the normal equations well
// conditioned for long windows.
func vandermonde(window, order int) *mat.Dense {
	half := float64(window / 2)
	a := mat.NewDense(window, order+1, nil)
	for k := range window {
		x := 0.0
		if half > 0 {
			x = (float64(k) - half) / half
		}
		p := 1.0
		for j := 0; j <= order; j++ {
			a.Set(k, j, p)
			p *= x
		}
	}
	return a
}

// savgolCoeffs returns the weights that evaluate the least-squares
// polynomial at the window center: the first row of pinv(A), computed as
// A (AᵀA)⁻¹ e₀.
func savgolCoeffs(window, order int) ([]float64, error) {
	a := vandermonde(window, order)

	var ata mat.Dense
	ata.Mul(a.T(), a)

	e0 := mat.NewVecDense(order+1, nil)
	e0.SetVec(0, 1)

	var z mat.VecDense
	if err := z.SolveVec(&ata, e0); err != nil {
		return nil, errors.Wrap(err, "solving normal equations")
	}

	var c mat.VecDense
	c.MulVec(a, &z)

	coeffs := make([]float64, window)
	for k := range coeffs {
		coeffs[k] = c.AtVec(k)
	}
	return coeffs, nil
}

// fitEdges overwrites the first and last window/2 values of out with the
// polynomial fitted to the first and last full windows of x.
func fitEdges(x, out []float64, window, order int) error {
	half := window / 2
	if half == 0 {
		return nil
	}
	a := vandermonde(window, order)

	left, err := polyFit(a, x[:window])
	if err != nil {
		return errors.Wrap(err, "leading edge")
	}
	for i := 0; i < half; i++ {
		out[i] = polyEval(left, float64(i-half)/float64(half))
	}

	start := len(x) - window
	right, err := polyFit(a, x[start:])
	if err != nil {
		return errors.Wrap(err, "trailing edge")
	}
	for i := len(x) - half; i < len(x); i++ {
		out[i] = polyEval(right, float64(i-start-half)/float64(half))
	}
	return nil
}

func polyFit(a *mat.Dense, y []float64) ([]float64, error) {
	var p mat.VecDense
	if err := p.SolveVec(a, mat.NewVecDense(len(y), y)); err != nil {
		return nil, err
	}
	coef := make([]float64, p.Len())
	for j := range coef {
		coef[j] = p.AtVec(j)
	}
	return coef, nil
}

func polyEval(coef []float64, x float64) float64 {
	v := 0.0
	for j := len(coef) - 1; j >= 0; j-- {
		v = v*x + coef[j]
	}
	return v
}
