package transform

import (
	"fmt"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// algoFFTEngine computes both channel spectra with one complex FFT.
//
// For z[n] = l[n] + i*r[n] with spectrum Z, the real-input spectra are
//
//	L[k] = (Z[k] + conj(Z[n-k])) / 2
//	R[k] = (Z[k] - conj(Z[n-k])) / 2i
type algoFFTEngine struct {
	size int
	plan *algofft.Plan[complex128]

	packed   []complex128
	spectrum []complex128
	full     []complex128
	timeBuf  []complex128
}

func newAlgoFFT(size int) (*algoFFTEngine, error) {
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("%w: algo-fft size %d: %w", ErrPlan, size, err)
	}

	return &algoFFTEngine{
		size:     size,
		plan:     plan,
		packed:   make([]complex128, size),
		spectrum: make([]complex128, size),
		full:     make([]complex128, size),
		timeBuf:  make([]complex128, size),
	}, nil
}

func (e *algoFFTEngine) Size() int { return e.size }

func (e *algoFFTEngine) Bins() int { return Bins(e.size) }

func (e *algoFFTEngine) Forward(left, right []complex128, interleaved []float64) error {
	if e.plan == nil {
		return ErrClosed
	}
	err := checkForward(e.size, left, right, interleaved)
	if err != nil {
		return err
	}

	for i := range e.size {
		e.packed[i] = complex(interleaved[2*i], interleaved[2*i+1])
	}

	err = e.plan.Forward(e.spectrum, e.packed)
	if err != nil {
		return fmt.Errorf("transform: forward FFT failed: %w", err)
	}

	n := e.size
	for k := range len(left) {
		z := e.spectrum[k]
		zc := cmplx.Conj(e.spectrum[(n-k)%n])
		left[k] = (z + zc) * 0.5
		right[k] = (z - zc) * complex(0, -0.5)
	}

	return nil
}

func (e *algoFFTEngine) Inverse(dst []float64, spectrum []complex128) error {
	if e.plan == nil {
		return ErrClosed
	}
	err := checkInverse(e.size, dst, spectrum)
	if err != nil {
		return err
	}

	n := e.size
	e.full[0] = complex(real(spectrum[0]), 0)
	for k := 1; k < len(spectrum); k++ {
		v := spectrum[k]
		if 2*k == n {
			e.full[k] = complex(real(v), 0)
			continue
		}
		e.full[k] = v
		e.full[n-k] = cmplx.Conj(v)
	}

	err = e.plan.Inverse(e.timeBuf, e.full)
	if err != nil {
		return fmt.Errorf("transform: inverse FFT failed: %w", err)
	}

	// algo-fft scales its inverse by 1/n; undo that.
	scale := float64(n)
	for i := range n {
		dst[i] = real(e.timeBuf[i]) * scale
	}

	return nil
}

func (e *algoFFTEngine) Close() error {
	e.plan = nil
	e.packed = nil
	e.spectrum = nil
	e.full = nil
	e.timeBuf = nil
	return nil
}
