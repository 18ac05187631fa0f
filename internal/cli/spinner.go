package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	spinnerInterval = 80 * time.Millisecond

	// Most snapshots lay out in a few milliseconds; frames only appear once
	// a run has taken longer than this.
	spinnerDelay = 150 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line with the elapsed time until it is stopped
// or its context ends.
type Spinner struct {
	w       io.Writer
	message string
	delay   time.Duration
	ctx     context.Context

	started time.Time
	done    chan struct{}
	stopped chan struct{} // nil until Start
	once    sync.Once

	mu    sync.Mutex
	width int // widest line drawn since the last clear
}

func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		delay:   spinnerDelay,
		ctx:     ctx,
		done:    make(chan struct{}),
	}
}

// Start begins the animation in a goroutine. It must be called at most once.
func (s *Spinner) Start() {
	s.started = time.Now()
	s.stopped = make(chan struct{})
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-s.done:
			return
		case now := <-ticker.C:
			elapsed := now.Sub(s.started)
			if elapsed < s.delay {
				continue
			}
			s.draw(spinnerFrames[i%len(spinnerFrames)], elapsed)
			i++
		}
	}
}

func (s *Spinner) draw(frame string, elapsed time.Duration) {
	line := fmt.Sprintf("%s %s %s",
		styleIconSpinner.Render(frame),
		StyleDim.Render(s.message),
		StyleDim.Render(elapsed.Truncate(100*time.Millisecond).String()))

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s", line)
	s.width = max(s.width, lipgloss.Width(line))
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}

// Stop ends the animation and erases the status line. It is safe to call
// more than once, and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		if s.stopped != nil {
			<-s.stopped
		}
		s.clear()
	})
}

// StopWithError stops the spinner and prints message as an error.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context ended. Stop does not count.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
