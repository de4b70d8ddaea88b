package transform

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPlan is returned when an engine cannot be planned for a size.
	ErrPlan = errors.New("transform: cannot plan transform")
	// ErrUnknownKind is returned for an unrecognized engine name.
	ErrUnknownKind = errors.New("transform: unknown engine")
	// ErrSize is returned when buffers do not match the planned size.
	ErrSize = errors.New("transform: buffer size mismatch")
	// ErrClosed is returned when a closed engine is used.
	ErrClosed = errors.New("transform: engine closed")
)

// Kind selects a transform engine implementation.
type Kind int

const (
	// KindAlgoFFT packs both channels into a single complex FFT.
	KindAlgoFFT Kind = iota
	// KindGonum runs two real FFTs per window.
	KindGonum
)

// String returns the engine name accepted by ParseKind.
func (k Kind) String() string {
	switch k {
	case KindAlgoFFT:
		return "algofft"
	case KindGonum:
		return "gonum"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses an engine name. Matching is case-insensitive and the
// empty string selects the default engine.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "algofft", "algo-fft":
		return KindAlgoFFT, nil
	case "gonum":
		return KindGonum, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// Engine performs the forward and inverse transforms of one stream.
type Engine interface {
	// Size returns the planned transform length in samples.
	Size() int
	// Bins returns the half-spectrum length Size/2+1.
	Bins() int
	// Forward transforms an interleaved stereo window of 2*Size samples into
	// the half spectra of the left and right channels.
	Forward(left, right []complex128, interleaved []float64) error
	// Inverse transforms a half spectrum into Size real samples without
	// normalization. Imaginary parts of the DC bin, and of the Nyquist bin
	// for even sizes, are ignored.
	Inverse(dst []float64, spectrum []complex128) error
	// Close releases the plan and workspace. It is safe to call twice.
	Close() error
}

// New plans an engine of the given kind for size-sample transforms.
func New(kind Kind, size int) (Engine, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be > 0, got %d", ErrPlan, size)
	}
	switch kind {
	case KindAlgoFFT:
		return newAlgoFFT(size)
	case KindGonum:
		return newGonum(size), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

// Bins returns the number of half-spectrum bins for a transform size.
func Bins(size int) int {
	return size/2 + 1
}

func checkForward(size int, left, right []complex128, interleaved []float64) error {
	bins := Bins(size)
	if len(interleaved) != 2*size {
		return fmt.Errorf("%w: interleaved window has %d samples, want %d", ErrSize, len(interleaved), 2*size)
	}
	if len(left) != bins || len(right) != bins {
		return fmt.Errorf("%w: spectra have %d/%d bins, want %d", ErrSize, len(left), len(right), bins)
	}
	return nil
}

func checkInverse(size int, dst []float64, spectrum []complex128) error {
	if len(dst) != size {
		return fmt.Errorf("%w: output has %d samples, want %d", ErrSize, len(dst), size)
	}
	if len(spectrum) != Bins(size) {
		return fmt.Errorf("%w: spectrum has %d bins, want %d", ErrSize, len(spectrum), Bins(size))
	}
	return nil
}
