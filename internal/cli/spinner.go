package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// spinnerFrames is the braille animation cycle shared by all spinners.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	// spinnerInterval is the frame advance rate.
	spinnerInterval = 80 * time.Millisecond

	// spinnerElapsedAfter is how long a spinner runs before the elapsed
	// time appears next to its message. Remote fetches and large
	// hierarchy renders can take a while; short operations stay
	// uncluttered.
	spinnerElapsedAfter = 2 * time.Second
)

// Spinner renders an animated progress indicator on stderr for
// operations that produce no intermediate output, such as fetching
// inputs or rendering a hierarchy graph. It clears its line when the
// bound context is cancelled so interrupted runs leave no residue.
type Spinner struct {
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	quit    chan struct{}
	parked  chan struct{}
	once    sync.Once
}

// newSpinnerWithContext creates a spinner bound to ctx. Cancelling ctx
// stops the animation without any further call.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		ctx:     sctx,
		cancel:  cancel,
		quit:    make(chan struct{}),
		parked:  make(chan struct{}),
	}
}

// Start begins the animation. It must be called before Stop.
func (s *Spinner) Start() {
	started := time.Now()
	go func() {
		defer close(s.parked)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.quit:
				return
			case <-ticker.C:
				line := styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]) +
					" " + StyleDim.Render(s.message)
				if elapsed := time.Since(started); elapsed >= spinnerElapsedAfter {
					line += StyleDim.Render(fmt.Sprintf(" (%ds)", int(elapsed.Seconds())))
				}
				fmt.Fprintf(os.Stderr, "\r%s", line)
				frame++
			}
		}
	}()
}

// Stop halts the animation and clears the line. Safe to call more than
// once; later calls wait for the first to finish and return.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		close(s.quit)
	})
	<-s.parked
	s.clearLine()
}

// StopWithSuccess stops the spinner and prints a success message in its
// place.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error message in its
// place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// clearLine blanks the spinner's row. The width allows for the frame
// glyph and the elapsed suffix on top of the message itself.
func (s *Spinner) clearLine() {
	width := utf8.RuneCountInString(s.message) + 12
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", width))
}
