package cli

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// newProgressBar builds a byte-count progress bar for a streaming
// file operation of the given total size.
func newProgressBar(size int64, label string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		size,
		progressbar.OptionSetDescription(label),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode),
	)
}

// progressWriter advances a progress bar by the number of bytes
// written through it before forwarding to the underlying writer. It
// drives the bar from fileop's own output cadence, not from an
// artificial callback threaded through the streaming protocol.
type progressWriter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newProgressWriter(w io.Writer, bar *progressbar.ProgressBar) *progressWriter {
	return &progressWriter{w: w, bar: bar}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	if n > 0 {
		_ = p.bar.Add(n)
	}
	return n, err
}
