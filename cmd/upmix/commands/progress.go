package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const progressWidth = 30

var (
	progressLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	progressBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	progressInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// progressLine renders a single, carriage-return updated status line.
type progressLine struct {
	w          io.Writer
	label      string
	total      int64
	sampleRate int
	started    time.Time
	lastPct    int
	lastDraw   time.Time
}

func newProgressLine(w io.Writer, label string, total int64, sampleRate int) *progressLine {
	return &progressLine{w: w, label: label, total: total, sampleRate: sampleRate, lastPct: -1}
}

func (p *progressLine) start() {
	p.started = time.Now()
	p.draw(0)
}

func (p *progressLine) update(written int64) {
	if p.total > 0 {
		pct := percent(written, p.total)
		if pct == p.lastPct {
			return
		}
		p.lastPct = pct
	} else if time.Since(p.lastDraw) < 100*time.Millisecond {
		return
	}
	p.draw(written)
}

func (p *progressLine) finish(written int64) {
	p.lastPct = -1
	p.draw(written)
	fmt.Fprintln(p.w)
}

func (p *progressLine) draw(written int64) {
	p.lastDraw = time.Now()
	fmt.Fprint(p.w, "\r"+p.render(written, time.Since(p.started)))
}

func (p *progressLine) render(written int64, elapsed time.Duration) string {
	var b strings.Builder
	b.WriteString(progressLabelStyle.Render(p.label))
	b.WriteByte(' ')

	if p.total > 0 {
		pct := percent(written, p.total)
		filled := pct * progressWidth / 100
		b.WriteString(progressBarStyle.Render("[" + strings.Repeat("#", filled) + strings.Repeat("-", progressWidth-filled) + "]"))
		fmt.Fprintf(&b, " %s", progressInfoStyle.Render(fmt.Sprintf("%3d%%  %s / %s",
			pct, audioTime(written, p.sampleRate), audioTime(p.total, p.sampleRate))))
	} else {
		b.WriteString(progressInfoStyle.Render(fmt.Sprintf("%d frames  %s", written, audioTime(written, p.sampleRate))))
	}

	fmt.Fprintf(&b, " %s", progressInfoStyle.Faint(true).Render(elapsed.Truncate(100*time.Millisecond).String()))
	return b.String()
}

func percent(written, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := int(written * 100 / total)
	return min(max(pct, 0), 100)
}

func audioTime(frames int64, sampleRate int) string {
	if sampleRate <= 0 {
		return "?"
	}
	d := time.Duration(frames) * time.Second / time.Duration(sampleRate)
	return d.Truncate(100 * time.Millisecond).String()
}
