package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDraws(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering bitmap")
	s.delay = 0
	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering bitmap") {
		t.Errorf("output %q does not contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q should end by clearing the line", out)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerQuietWhenFast(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering")
	s.Start()
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("fast run wrote %q", buf.String())
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := newSpinner(ctx, &buf, "Rendering")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStop(t *testing.T) {
	tests := []struct {
		name  string
		start bool
	}{
		{"after start", true},
		{"without start", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSpinner(context.Background(), &bytes.Buffer{}, "Rendering")
			if tt.start {
				s.Start()
			}
			done := make(chan struct{})
			go func() {
				s.Stop()
				s.Stop()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("Stop blocked")
			}
		})
	}
}
