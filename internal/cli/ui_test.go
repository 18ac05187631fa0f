package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/phallocators/allocviz/pkg/pipeline"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name   string
		stats  pipeline.Stats
		cached bool
		want   []string
		absent []string
	}{
		{
			name:   "bitmap",
			stats:  pipeline.Stats{MemSize: 4, Primitives: 4},
			want:   []string{"4 units", "4 primitives", "fresh"},
			absent: []string{"blocks", "links", "cached"},
		},
		{
			name:   "linked list",
			stats:  pipeline.Stats{MemSize: 16, Primitives: 9, GraphNodes: 4, GraphEdges: 6},
			cached: true,
			want:   []string{"16 units", "4 blocks", "6 links", "cached"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdout(t)
			printStats(tt.stats, tt.cached)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out, a) {
					t.Errorf("output %q should not contain %q", out, a)
				}
			}
		})
	}
}

func TestPrintCacheStatus(t *testing.T) {
	buf := captureStdout(t)
	printCacheStatus(false)
	if got := strings.TrimSpace(buf.String()); !strings.HasSuffix(got, "fresh") || strings.Contains(got, "·") {
		t.Errorf("printCacheStatus(false) = %q", got)
	}
}

func TestPrintFile(t *testing.T) {
	buf := captureStdout(t)
	printFile("heap.svg")
	if out := buf.String(); !strings.HasPrefix(out, "  ") || !strings.Contains(out, "heap.svg") {
		t.Errorf("printFile() = %q", out)
	}
}
