package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

type flacDecoder struct {
	stream   *flac.Stream
	channels int
	scale    float64
	total    int64

	block *frame.Frame
	pos   int
}

func (r *Reader) openFLAC() error {
	stream, err := flac.New(r.file)
	if err != nil {
		return fmt.Errorf("decode FLAC: %w", err)
	}

	info := stream.Info
	total := int64(-1)
	if info.NSamples > 0 {
		total = int64(info.NSamples)
	}

	r.format = "flac"
	r.sampleRate = int(info.SampleRate)
	r.channels = int(info.NChannels)
	r.bitDepth = int(info.BitsPerSample)
	r.dec = &flacDecoder{
		stream:   stream,
		channels: int(info.NChannels),
		scale:    1 / math.Exp2(float64(info.BitsPerSample)-1),
		total:    total,
	}

	return nil
}

func (d *flacDecoder) readFrames(buf []float64) (int, error) {
	want := len(buf) / d.channels
	got := 0
	for got < want {
		if d.block == nil || d.pos >= len(d.block.Subframes[0].Samples) {
			block, err := d.stream.ParseNext()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return got, fmt.Errorf("audiofile: decode FLAC: %w", err)
			}
			d.block = block
			d.pos = 0
			continue
		}

		n := min(want-got, len(d.block.Subframes[0].Samples)-d.pos)
		for i := range n {
			for ch := range d.channels {
				s := d.block.Subframes[ch].Samples[d.pos+i]
				buf[(got+i)*d.channels+ch] = float64(s) * d.scale
			}
		}
		got += n
		d.pos += n
	}

	if got == 0 && want > 0 {
		return 0, io.EOF
	}
	return got, nil
}

func (d *flacDecoder) frames() int64 { return d.total }
