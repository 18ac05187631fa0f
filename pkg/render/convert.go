package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ConverterBinary is the external tool used by [ToPDF] and [ToPNG].
const ConverterBinary = "rsvg-convert"

// Available reports whether rsvg-convert can be found on PATH.
func Available() bool {
	_, err := exec.LookPath(ConverterBinary)
	return err == nil
}

// ToPDF converts SVG bytes to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "-f", "pdf")
}

// ToPNG converts SVG bytes to PNG at the given scale. A scale <= 0 means 1.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(svg, "-f", "png", "-z", strconv.FormatFloat(scale, 'f', -1, 64))
}

func convert(svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(ConverterBinary)
	if err != nil {
		return nil, fmt.Errorf("%s not found (install librsvg): %w", ConverterBinary, err)
	}

	cmd := exec.Command(path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", ConverterBinary, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", ConverterBinary, err)
	}
	return out.Bytes(), nil
}
