package main

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// newProgress returns a sampler hook drawing one progress bar per cycle.
func newProgress(w io.Writer) func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil || done == 1 {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("sampling"),
				progressbar.OptionSetPredictTime(true),
				progressbar.OptionClearOnFinish(),
			)
		}
		log.ErrIfFail(func() error { return bar.Set(done) })
		if done == total {
			log.ErrIfFail(bar.Finish)
			bar = nil
		}
	}
}
