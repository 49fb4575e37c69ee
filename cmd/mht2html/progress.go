package main

import (
	"io"
	"sync"

	"github.com/pterm/pterm"

	mht2html "github.com/5ime/mht2html"
)

// progressBar renders extraction progress. The bar is created lazily on
// the first event because the resource count is only known once the
// archive has been parsed.
type progressBar struct {
	mu     sync.Mutex
	pb     *pterm.ProgressbarPrinter
	writer io.Writer
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{writer: w}
}

// update advances the bar by one resource. Extraction workers call this
// concurrently, hence the lock.
func (b *progressBar) update(ev mht2html.ResourceEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pb == nil {
		pb, err := pterm.DefaultProgressbar.
			WithTotal(ev.Total).
			WithTitle("Extracting resources").
			WithWriter(b.writer).
			Start()
		if err != nil {
			return
		}
		b.pb = pb
	}

	// Per-part failures surface in the run-end summary; the bar only
	// tracks completion.
	b.pb.Increment()
}

// stop finalizes the bar. Safe to call when no event ever arrived.
func (b *progressBar) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pb != nil {
		_, _ = b.pb.Stop()
		b.pb = nil
	}
}
