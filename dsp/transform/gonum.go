package transform

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// gonumEngine runs one real FFT per channel.
type gonumEngine struct {
	size int
	fft  *fourier.FFT

	left  []float64
	right []float64
	coeff []complex128
}

func newGonum(size int) *gonumEngine {
	return &gonumEngine{
		size:  size,
		fft:   fourier.NewFFT(size),
		left:  make([]float64, size),
		right: make([]float64, size),
		coeff: make([]complex128, Bins(size)),
	}
}

func (e *gonumEngine) Size() int { return e.size }

func (e *gonumEngine) Bins() int { return Bins(e.size) }

func (e *gonumEngine) Forward(left, right []complex128, interleaved []float64) error {
	if e.fft == nil {
		return ErrClosed
	}
	err := checkForward(e.size, left, right, interleaved)
	if err != nil {
		return err
	}

	for i := range e.size {
		e.left[i] = interleaved[2*i]
		e.right[i] = interleaved[2*i+1]
	}

	e.fft.Coefficients(left, e.left)
	e.fft.Coefficients(right, e.right)

	return nil
}

func (e *gonumEngine) Inverse(dst []float64, spectrum []complex128) error {
	if e.fft == nil {
		return ErrClosed
	}
	err := checkInverse(e.size, dst, spectrum)
	if err != nil {
		return err
	}

	copy(e.coeff, spectrum)
	e.coeff[0] = complex(real(e.coeff[0]), 0)
	if e.size%2 == 0 {
		last := len(e.coeff) - 1
		e.coeff[last] = complex(real(e.coeff[last]), 0)
	}

	// gonum leaves the inverse unscaled.
	e.fft.Sequence(dst, e.coeff)

	return nil
}

func (e *gonumEngine) Close() error {
	e.fft = nil
	e.left = nil
	e.right = nil
	e.coeff = nil
	return nil
}
