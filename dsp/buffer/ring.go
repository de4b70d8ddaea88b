package buffer

// Ring is a fixed-length sliding window of interleaved multi-channel frames.
//
// Advancing the window moves a head index instead of shifting samples. The
// storage is mirrored (every write lands in two copies frames apart), so
// Window always returns the current frames as one contiguous, oldest-first
// slice that can be handed to an FFT without copying.
//
// Frame indices passed to At, Set and Add are logical: 0 is the oldest frame
// in the window and Frames()-1 the newest.
type Ring struct {
	data     []float64
	frames   int
	channels int
	head     int
}

// NewRing returns a zero-filled Ring holding frames frames of channels samples.
// Non-positive arguments are clamped to 1.
func NewRing(frames, channels int) *Ring {
	if frames < 1 {
		frames = 1
	}
	if channels < 1 {
		channels = 1
	}
	return &Ring{
		data:     make([]float64, 2*frames*channels),
		frames:   frames,
		channels: channels,
	}
}

// Frames returns the window length in frames.
func (r *Ring) Frames() int { return r.frames }

// Channels returns the number of interleaved channels per frame.
func (r *Ring) Channels() int { return r.channels }

// Window returns the current window as an interleaved, oldest-first slice of
// Frames()*Channels() samples. The slice aliases the ring storage and is
// invalidated by the next write or Advance; callers must treat it as read-only.
func (r *Ring) Window() []float64 {
	start := r.head * r.channels
	return r.data[start : start+r.frames*r.channels]
}

// At returns the sample of channel ch in logical frame i.
func (r *Ring) At(i, ch int) float64 {
	return r.data[(r.head+i)*r.channels+ch]
}

// Set stores v as the sample of channel ch in logical frame i.
func (r *Ring) Set(i, ch int, v float64) {
	p := r.index(i, ch)
	r.data[p] = v
	r.data[p+r.frames*r.channels] = v
}

// Add accumulates v into the sample of channel ch in logical frame i.
func (r *Ring) Add(i, ch int, v float64) {
	p := r.index(i, ch)
	sum := r.data[p] + v
	r.data[p] = sum
	r.data[p+r.frames*r.channels] = sum
}

// AddColumn accumulates src[i] into channel ch of logical frame i for every i
// in src. src must not be longer than the window.
func (r *Ring) AddColumn(ch int, src []float64) {
	if len(src) > r.frames {
		panic("buffer: AddColumn source longer than ring")
	}
	span := r.frames * r.channels
	for i, v := range src {
		p := r.index(i, ch)
		sum := r.data[p] + v
		r.data[p] = sum
		r.data[p+span] = sum
	}
}

// WriteTail overwrites the newest len(src)/Channels() frames with the
// interleaved samples in src. A trailing partial frame in src is ignored.
func (r *Ring) WriteTail(src []float64) {
	n := len(src) / r.channels
	if n > r.frames {
		panic("buffer: WriteTail source longer than ring")
	}
	first := r.frames - n
	for i := range n {
		for ch := range r.channels {
			r.Set(first+i, ch, src[i*r.channels+ch])
		}
	}
}

// Advance slides the window forward by n frames. The n oldest frames are
// discarded and n zero frames appear at the tail. n is clamped to Frames().
func (r *Ring) Advance(n int) {
	if n <= 0 {
		return
	}
	if n > r.frames {
		n = r.frames
	}
	for i := range n {
		for ch := range r.channels {
			r.Set(i, ch, 0)
		}
	}
	r.head += n
	if r.head >= r.frames {
		r.head -= r.frames
	}
}

// Reset zeroes the window and rewinds the head.
func (r *Ring) Reset() {
	for i := range r.data {
		r.data[i] = 0
	}
	r.head = 0
}

// index maps a logical frame and channel to its position in the first mirror.
func (r *Ring) index(i, ch int) int {
	p := r.head + i
	if p >= r.frames {
		p -= r.frames
	}
	return p*r.channels + ch
}
