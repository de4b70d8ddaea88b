package audiofile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-upmix/internal/testutil"
)

// KSDATAFORMAT_SUBTYPE_* GUIDs share everything but the leading tag.
var guidSuffix = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// buildWAV assembles a RIFF/WAVE file. A non-zero subFormat produces a
// WAVE_FORMAT_EXTENSIBLE fmt chunk carrying it.
func buildWAV(t *testing.T, tag, subFormat uint16, channels, sampleRate, bits int, data []byte) []byte {
	t.Helper()

	var fmtChunk bytes.Buffer
	le := func(v any) {
		if err := binary.Write(&fmtChunk, binary.LittleEndian, v); err != nil {
			t.Fatalf("binary.Write() error = %v", err)
		}
	}
	align := channels * bits / 8
	le(tag)
	le(uint16(channels))
	le(uint32(sampleRate))
	le(uint32(sampleRate * align))
	le(uint16(align))
	le(uint16(bits))
	if subFormat != 0 {
		le(uint16(22))
		le(uint16(bits))
		le(uint32(0x3))
		le(subFormat)
		fmtChunk.Write(guidSuffix)
	}

	var out bytes.Buffer
	chunk := func(id string, body []byte) {
		out.WriteString(id)
		_ = binary.Write(&out, binary.LittleEndian, uint32(len(body)))
		out.Write(body)
		if len(body)%2 == 1 {
			out.WriteByte(0)
		}
	}
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(0))
	out.WriteString("WAVE")
	chunk("JUNK", []byte{1, 2, 3})
	chunk("fmt ", fmtChunk.Bytes())
	chunk("data", data)

	b := out.Bytes()
	binary.LittleEndian.PutUint32(b[4:], uint32(len(b)-8))
	return b
}

func pcm16(samples ...int16) []byte {
	b := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}
	return b
}

func TestWAVFormatTag(t *testing.T) {
	tests := []struct {
		name     string
		tag, sub uint16
		bits     int
		wantTag  uint16
	}{
		{name: "pcm", tag: wavFormatPCM, bits: 16, wantTag: wavFormatPCM},
		{name: "ieee float", tag: 3, bits: 32, wantTag: 3},
		{name: "extensible pcm", tag: wavFormatExtensible, sub: wavFormatPCM, bits: 24, wantTag: wavFormatPCM},
		{name: "extensible float", tag: wavFormatExtensible, sub: 3, bits: 32, wantTag: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildWAV(t, tt.tag, tt.sub, 2, 44100, tt.bits, make([]byte, 16))
			got, err := wavFormatTag(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("wavFormatTag() error = %v", err)
			}
			if got != tt.wantTag {
				t.Fatalf("wavFormatTag() = %#x, want %#x", got, tt.wantTag)
			}
		})
	}

	if _, err := wavFormatTag(bytes.NewReader([]byte("RIFF\x04\x00\x00\x00AVI "))); err == nil {
		t.Fatal("expected error for non-WAVE RIFF form")
	}
}

func TestOpenRejectsFloatWAV(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		tag, sub uint16
	}{
		{name: "ieee float", tag: 3},
		{name: "extensible float", tag: wavFormatExtensible, sub: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".wav")
			data := buildWAV(t, tt.tag, tt.sub, 2, 48000, 32, make([]byte, 32))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := Open(path); !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("Open() error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestOpenExtensiblePCM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ext.wav")
	data := buildWAV(t, wavFormatExtensible, wavFormatPCM, 2, 22050, 16, pcm16(16384, -16384, 0, 32767))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if r.Channels() != 2 || r.BitDepth() != 16 || r.SampleRate() != 22050 {
		t.Fatalf("format = %d ch / %d bit / %d Hz", r.Channels(), r.BitDepth(), r.SampleRate())
	}
	if got := r.Frames(); got != 2 {
		t.Fatalf("Frames() = %d, want 2", got)
	}

	got := readAll(t, r, 5)
	testutil.RequireSliceNearlyEqual(t, got, []float64{0.5, -0.5, 0, 32767.0 / 32768}, 0)
}

func TestWAVFramesKnownAtOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "len.wav")
	writeFile(t, path, 44100, 2, make([]float64, 2*1000))

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if got := r.Frames(); got != 1000 {
		t.Fatalf("Frames() at open = %d, want 1000", got)
	}
	if got := len(readAll(t, r, 333)); got != 2*1000 {
		t.Fatalf("read %d samples, want 2000", got)
	}
}
