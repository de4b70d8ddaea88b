// Package level accumulates per-channel peak and RMS levels of interleaved
// sample streams.
package level

import "math"

// Channel holds the level statistics of one channel.
type Channel struct {
	Samples int64
	Peak    float64
	RMS     float64
	// Clipped counts samples with |x| >= 1.
	Clipped int64
}

// PeakDB returns the peak level in dBFS, -Inf for silence.
func (c Channel) PeakDB() float64 { return toDB(c.Peak) }

// RMSDB returns the RMS level in dBFS, -Inf for silence.
func (c Channel) RMSDB() float64 { return toDB(c.RMS) }

func toDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

// Meter accumulates levels over blocks of interleaved frames.
//
// Meter is not safe for concurrent use.
type Meter struct {
	channels int
	peak     []float64
	sumSq    []float64
	clipped  []int64
	frames   int64
}

// NewMeter returns a meter for the given channel count (minimum 1).
func NewMeter(channels int) *Meter {
	channels = max(channels, 1)
	return &Meter{
		channels: channels,
		peak:     make([]float64, channels),
		sumSq:    make([]float64, channels),
		clipped:  make([]int64, channels),
	}
}

// Channels returns the channel count.
func (m *Meter) Channels() int { return m.channels }

// Frames returns the number of whole frames seen.
func (m *Meter) Frames() int64 { return m.frames }

// Update adds a block of interleaved samples. A trailing partial frame is
// ignored.
func (m *Meter) Update(interleaved []float64) {
	n := len(interleaved) / m.channels * m.channels
	for i, v := range interleaved[:n] {
		ch := i % m.channels
		a := math.Abs(v)
		if a > m.peak[ch] {
			m.peak[ch] = a
		}
		if a >= 1 {
			m.clipped[ch]++
		}
		m.sumSq[ch] += v * v
	}
	m.frames += int64(n / m.channels)
}

// Channel returns the statistics of channel ch.
func (m *Meter) Channel(ch int) Channel {
	c := Channel{Samples: m.frames, Peak: m.peak[ch], Clipped: m.clipped[ch]}
	if m.frames > 0 {
		c.RMS = math.Sqrt(m.sumSq[ch] / float64(m.frames))
	}
	return c
}

// Result returns the statistics of every channel.
func (m *Meter) Result() []Channel {
	out := make([]Channel, m.channels)
	for ch := range out {
		out[ch] = m.Channel(ch)
	}
	return out
}

// Reset clears all accumulated data.
func (m *Meter) Reset() {
	clear(m.peak)
	clear(m.sumSq)
	clear(m.clipped)
	m.frames = 0
}
