package palette

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHex parses "#rgb", "#rrggbb", "rgb" or "rrggbb" (case-insensitive).
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return Color{}, fmt.Errorf("unsupported hex color format %q (want 3 or 6 hex digits)", s)
	}
	for i := 0; i < len(h); i++ {
		if !isHexDigit(h[i]) {
			return Color{}, fmt.Errorf("invalid hex color %q: %q is not a hex digit", s, h[i])
		}
	}

	c, err := colorful.Hex("#" + strings.ToLower(h))
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{c}, nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
