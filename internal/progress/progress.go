// Package progress renders download progress while copying a response body
// to disk.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
	"golang.org/x/time/rate"
)

const (
	// barWidth : Cell count of the drawn progress bar.
	barWidth = 30
	// updateInterval : Minimum time between two progress updates.
	updateInterval = 500 * time.Millisecond
)

// Reporter : Strategy for showing how far a download has come. Update may be
// called any number of times with a non-decreasing done; Finish is called
// once after the last update.
type Reporter interface {
	Update(done, total int64)
	Finish()
}

// ForWriter : Pick the reporter matching how w will be viewed. A terminal
// gets an in-place redrawn bar, anything else one status line per update.
func ForWriter(w io.Writer) Reporter {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewBar(w)
	}
	return NewLine(w)
}

// NewBar : Reporter drawing a fixed-width bar redrawn in place.
func NewBar(w io.Writer) Reporter {
	return &barReporter{w: w}
}

// NewLine : Reporter emitting one full status line per update.
func NewLine(w io.Writer) Reporter {
	return &lineReporter{w: w}
}

// Silent : Reporter showing nothing.
func Silent() Reporter {
	return silentReporter{}
}

type barReporter struct {
	w io.Writer
}

func (b *barReporter) Update(done, total int64) {
	cells := int(int64(barWidth) * done / total)
	if cells > barWidth {
		cells = barWidth
	}
	fmt.Fprintf(b.w, "\r[%s%s] %.1f%%",
		strings.Repeat("#", cells),
		strings.Repeat(" ", barWidth-cells),
		float64(done)/float64(total)*100)
}

func (b *barReporter) Finish() {
	fmt.Fprintln(b.w)
}

type lineReporter struct {
	w io.Writer
}

func (l *lineReporter) Update(done, total int64) {
	fmt.Fprintf(l.w, "%d/%d bytes downloaded (%.1f%%)\n",
		done, total, float64(done)/float64(total)*100)
}

func (l *lineReporter) Finish() {}

type silentReporter struct{}

func (silentReporter) Update(done, total int64) {}
func (silentReporter) Finish()                  {}

// Copy : Stream src to dst in transport-sized chunks, reporting progress to
// rep. An update is emitted immediately at done=0, then at most one every
// updateInterval, then a final one at done=total. When total is unknown
// (<= 0) the copy runs without any reporting.
func Copy(dst io.Writer, src io.Reader, total int64, rep Reporter) (int64, error) {
	limiter := rate.NewLimiter(rate.Every(updateInterval), 1)
	if total > 0 {
		rep.Update(0, total)
		limiter.Allow()
	}
	var done int64
	buf := make([]byte, 32*1024)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			done += int64(wn)
			if werr != nil {
				return done, werr
			}
			if wn < n {
				return done, io.ErrShortWrite
			}
			if total > 0 && limiter.Allow() {
				rep.Update(done, total)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return done, rerr
		}
	}
	if total > 0 {
		rep.Update(done, total)
		rep.Finish()
	}
	return done, nil
}
