package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// PageProgress reports extraction progress with a progress bar. It
// satisfies pipeline.Progress.
type PageProgress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	lines  int
}

// NewPageProgress creates a progress reporter writing to w.
func NewPageProgress(w io.Writer) *PageProgress {
	return &PageProgress{writer: w}
}

// PageDone advances the bar by one page. The bar is created on the first
// call, once the page count is known.
func (p *PageProgress) PageDone(_, total, lines int) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]Extracting pages...[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprintln(p.writer); err != nil {
					slog.Warn("Failed to write newline after progress bar", "error", err)
				}
			}),
		)
	}

	p.lines += lines
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Lines returns the number of lines seen so far.
func (p *PageProgress) Lines() int {
	return p.lines
}
