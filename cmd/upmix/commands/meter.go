package commands

import (
	"context"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-upmix/dsp/upmix"
	"github.com/cwbudde/algo-upmix/stats/level"
)

var outputChannelNames = [upmix.OutputChannels]string{"left", "right", "center"}

// meteredSink measures levels of everything written to the wrapped sink.
type meteredSink struct {
	upmix.Sink
	meter *level.Meter
}

func newMeteredSink(dst upmix.Sink) *meteredSink {
	return &meteredSink{Sink: dst, meter: level.NewMeter(upmix.OutputChannels)}
}

func (m *meteredSink) WriteFrames(buf []float64) error {
	m.meter.Update(buf)
	return m.Sink.WriteFrames(buf)
}

func (m *meteredSink) log(logger *slog.Logger) {
	for ch, c := range m.meter.Result() {
		lvl := slog.LevelInfo
		if c.Clipped > 0 {
			lvl = slog.LevelWarn
		}
		logger.Log(context.Background(), lvl, "level",
			"channel", outputChannelNames[ch],
			"peak_dbfs", roundDB(c.PeakDB()),
			"rms_dbfs", roundDB(c.RMSDB()),
			"clipped", c.Clipped,
		)
	}
}

func roundDB(v float64) float64 {
	return math.Round(v*100) / 100
}
