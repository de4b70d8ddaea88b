package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Interleave builds an interleaved multi-channel buffer from equal-length
// channel slices. Shorter channels are zero-padded to the longest one.
func Interleave(channels ...[]float64) []float64 {
	frames := 0
	for _, c := range channels {
		frames = max(frames, len(c))
	}
	out := make([]float64, frames*len(channels))
	for ch, c := range channels {
		for i, v := range c {
			out[i*len(channels)+ch] = v
		}
	}
	return out
}

// Column extracts channel ch from an interleaved buffer with numChannels
// channels per frame.
func Column(interleaved []float64, numChannels, ch int) []float64 {
	out := make([]float64, len(interleaved)/numChannels)
	for i := range out {
		out[i] = interleaved[i*numChannels+ch]
	}
	return out
}
