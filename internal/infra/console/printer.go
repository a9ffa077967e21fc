package console

import (
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/ManuGH/demorec/internal/dispatch"
)

// Printer writes user-facing replies in the plugin's console colors:
// green for information, red for errors, orange-ish yellow for bookmarks.
type Printer struct {
	mu sync.Mutex
	w  io.Writer

	info      *color.Color
	failure   *color.Color
	highlight *color.Color
}

// NewPrinter returns a Printer on w. With colored false the escape codes are
// never written, regardless of terminal detection.
func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:         w,
		info:      color.New(color.FgGreen),
		failure:   color.New(color.FgRed, color.Bold),
		highlight: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.info, p.failure, p.highlight} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Print writes one reply line.
func (p *Printer) Print(r dispatch.Reply) {
	if r.Message == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.info
	switch r.Tone {
	case dispatch.ToneError:
		c = p.failure
	case dispatch.ToneHighlight:
		c = p.highlight
	case dispatch.ToneInfo:
	}
	_, _ = c.Fprintln(p.w, r.Message)
}
