package upmix

import (
	"github.com/cwbudde/algo-vecmath"
)

// Selector builds the center spectrum from a left/right spectrum pair.
//
// For every bin the center coefficient is a copy of the channel coefficient
// with the smaller squared magnitude; on a tie the left coefficient is used.
// Content louder on one side is treated as that side's own, and the quieter
// side's coefficient as the shared part.
type Selector struct {
	re         []float64
	im         []float64
	leftPower  []float64
	rightPower []float64
}

// NewSelector returns a Selector for spectra of the given bin count.
func NewSelector(bins int) *Selector {
	return &Selector{
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		leftPower:  make([]float64, bins),
		rightPower: make([]float64, bins),
	}
}

// Bins returns the spectrum length the Selector was built for.
func (s *Selector) Bins() int { return len(s.re) }

// Select writes the center spectrum into center.
// All slices must have Bins() elements. Panics if lengths differ.
func (s *Selector) Select(center, left, right []complex128) {
	n := len(s.re)
	if len(center) != n || len(left) != n || len(right) != n {
		panic("upmix: selector spectrum length mismatch")
	}

	s.power(s.leftPower, left)
	s.power(s.rightPower, right)

	for i := range n {
		if s.rightPower[i] < s.leftPower[i] {
			center[i] = right[i]
		} else {
			center[i] = left[i]
		}
	}
}

func (s *Selector) power(dst []float64, spectrum []complex128) {
	for i, c := range spectrum {
		s.re[i] = real(c)
		s.im[i] = imag(c)
	}
	vecmath.Power(dst, s.re, s.im)
}
