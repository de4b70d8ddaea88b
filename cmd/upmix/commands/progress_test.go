package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestProgressRender(t *testing.T) {
	p := newProgressLine(&bytes.Buffer{}, "upmix", 48000, 48000)

	got := p.render(24000, time.Second)
	for _, want := range []string{"upmix", "50%", "500ms / 1s", strings.Repeat("#", 15) + strings.Repeat("-", 15)} {
		if !strings.Contains(got, want) {
			t.Fatalf("render() = %q, missing %q", got, want)
		}
	}
}

func TestProgressRenderUnknownTotal(t *testing.T) {
	p := newProgressLine(&bytes.Buffer{}, "upmix", -1, 44100)

	got := p.render(4410, 0)
	if !strings.Contains(got, "4410 frames") || strings.Contains(got, "%") {
		t.Fatalf("render() = %q", got)
	}
}

func TestProgressUpdateSkipsUnchangedPercent(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressLine(&buf, "upmix", 1000, 1000)
	p.start()

	p.update(10)
	n := buf.Len()
	p.update(11)
	if buf.Len() != n {
		t.Fatal("redrawn without percent change")
	}
	p.update(20)
	if buf.Len() == n {
		t.Fatal("not redrawn after percent change")
	}

	p.finish(1000)
	if !strings.HasSuffix(buf.String(), "\n") || !strings.Contains(buf.String(), "100%") {
		t.Fatalf("finish output = %q", buf.String())
	}
}

func TestPercentClamps(t *testing.T) {
	tests := []struct {
		written, total int64
		want           int
	}{
		{0, 100, 0},
		{50, 100, 50},
		{150, 100, 100},
		{-5, 100, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := percent(tt.written, tt.total); got != tt.want {
			t.Fatalf("percent(%d, %d) = %d, want %d", tt.written, tt.total, got, tt.want)
		}
	}
}
