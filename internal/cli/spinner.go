package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the time between animation frames.
const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on w while a graph step runs. The first
// frame is drawn right away. It stops on its own when the context is cancelled.
type spinner struct {
	w      io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	message string
	width   int // widest line drawn, for clearing
}

// startSpinner starts a spinner showing message on w.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, parent: ctx, ctx: sctx, cancel: cancel, done: make(chan struct{}), message: message}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	s.draw(spinnerFrames[0])
	for i := 1; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	s.width = max(s.width, len(s.message)+2)
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// update replaces the message shown from the next frame on.
func (s *spinner) update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// stop ends the animation and clears the line. It is safe to call more than once.
func (s *spinner) stop() {
	s.once.Do(s.cancel)
	<-s.done
}

// success stops the spinner and reports message.
func (s *spinner) success(message string) {
	s.stop()
	printSuccess("%s", message)
}

// fail stops the spinner and reports message.
func (s *spinner) fail(message string) {
	s.stop()
	printError("%s", message)
}

// cancelled reports whether the spinner ended because its context did.
func (s *spinner) cancelled() bool {
	return s.parent.Err() != nil
}
