package analysis

import "gonum.org/v1/gonum/dsp/fourier"

// directLimit is the work size (len(x)*len(kernel)) below which a direct
// convolution beats the FFT setup cost.
const directLimit = 1 << 18

// convolveSame returns the convolution of x with an odd-length kernel,
// trimmed to len(x) and aligned on the kernel center. Samples beyond either
// end of x count as zero.
func convolveSame(x, kernel []float64) []float64 {
	if len(x)*len(kernel) <= directLimit {
		return convolveDirect(x, kernel)
	}
	return convolveFFT(x, kernel)
}

func convolveDirect(x, kernel []float64) []float64 {
	half := len(kernel) / 2
	out := make([]float64, len(x))
	for i := range out {
		sum := 0.0
		for k, c := range kernel {
			j := i + half - k
			if j < 0 || j >= len(x) {
				continue
			}
			sum += c * x[j]
		}
		out[i] = sum
	}
	return out
}

// convolveFFT is an overlap-add convolution. Blocks of x are transformed,
// multiplied by the kernel spectrum and added back into the full-length
// result.
func convolveFFT(x, kernel []float64) []float64 {
	m := len(kernel)
	size := 1024
	for size < 4*m {
		size <<= 1
	}
	block := size - m + 1

	plan := fourier.NewFFT(size)

	padded := make([]float64, size)
	copy(padded, kernel)
	kspec := plan.Coefficients(nil, padded)

	full := make([]float64, len(x)+m-1)
	spec := make([]complex128, len(kspec))
	seq := make([]float64, size)
	scale := 1 / float64(size)

	for start := 0; start < len(x); start += block {
		end := min(start+block, len(x))
		clear(padded)
		copy(padded, x[start:end])

		spec = plan.Coefficients(spec, padded)
		for i := range spec {
			spec[i] *= kspec[i]
		}
		seq = plan.Sequence(seq, spec)

		n := min(end-start+m-1, len(full)-start)
		for i := range n {
			full[start+i] += seq[i] * scale
		}
	}

	half := m / 2
	return full[half : half+len(x)]
}
