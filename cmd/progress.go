package cmd

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// progressTracker draws batch progress on stderr so reports on stdout stay clean.
type progressTracker struct {
	bar *progressbar.ProgressBar
}

func newProgressTracker(label string, total int) *progressTracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &progressTracker{bar: bar}
}

// Tick is safe for concurrent use.
func (t *progressTracker) Tick() {
	_ = t.bar.Add(1)
}

func (t *progressTracker) Finish() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}
