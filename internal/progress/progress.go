package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Bar renders verification progress over size buckets on a terminal line.
// A nil *Bar is valid and draws nothing.
type Bar struct {
	total      int64
	current    int64
	width      int
	writer     io.Writer
	label      string
	lastUpdate time.Time
}

func New(w io.Writer, total int64) *Bar {
	return &Bar{
		total:  total,
		width:  40,
		writer: w,
	}
}

// Step marks one bucket of the given size as verified.
func (b *Bar) Step(size int64) {
	if b == nil {
		return
	}

	b.current++
	b.label = humanize.IBytes(uint64(size))

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current == b.total {
		b.lastUpdate = now
		b.render()
	}
}

func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	filled := int(float64(b.width) * float64(b.current) / float64(b.total))
	if filled > b.width {
		filled = b.width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", b.width-filled)
	percent := float64(b.current) / float64(b.total) * 100

	// Clear the line and write progress
	fmt.Fprintf(b.writer, "\r\033[K[%s] %3d%% (%d/%d sizes) | %s",
		bar, int(percent), b.current, b.total, b.label)
}

func (b *Bar) Finish() {
	if b == nil {
		return
	}

	b.current = b.total
	b.render()
	fmt.Fprintf(b.writer, "\n")
}
