package pipeline

import (
	"testing"

	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/model"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", true}, // graph only
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateGraphFormat(t *testing.T) {
	for _, f := range []string{"svg", "png", "pdf", "dot"} {
		if err := ValidateGraphFormat(f); err != nil {
			t.Errorf("ValidateGraphFormat(%q) error = %v", f, err)
		}
	}
	if err := ValidateGraphFormat("json"); err == nil {
		t.Error("ValidateGraphFormat(json) should fail")
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"svg, PNG ,pdf", []string{"svg", "png", "pdf"}},
		{"svg,,svg", []string{"svg"}},
	}
	for _, tt := range tests {
		got := ParseFormats(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: []byte("{}"), Graph: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if len(opts.GraphFormats) != 1 || opts.GraphFormats[0] != FormatSVG {
		t.Errorf("GraphFormats = %v, want [svg]", opts.GraphFormats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Layouts == nil || opts.Layouts.Buddy.InterGroupPad != 15 {
		t.Errorf("Layouts = %+v, want defaults", opts.Layouts)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	badLayouts := layout.DefaultSet()
	badLayouts.Bitmap.Block.W = 0

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"empty input", Options{}, errors.ErrCodeInvalidInput},
		{"unknown kind", Options{Input: []byte("{}"), Kind: "slab"}, errors.ErrCodeInvalidKind},
		{"bad format", Options{Input: []byte("{}"), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad graph format", Options{Input: []byte("{}"), Graph: true, GraphFormats: []string{"json"}}, errors.ErrCodeInvalidFormat},
		{"negative scale", Options{Input: []byte("{}"), Scale: -1}, errors.ErrCodeInvalidConfig},
		{"bad layout", Options{Input: []byte("{}"), Layouts: &badLayouts}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Input: []byte("{}")}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	svg := opts.ArtifactKeyOpts(model.KindBitmap, FormatSVG)
	png := opts.ArtifactKeyOpts(model.KindBitmap, FormatPNG)
	if svg.Scale != 0 || png.Scale != DefaultScale {
		t.Errorf("scale only belongs in png keys: svg=%v png=%v", svg.Scale, png.Scale)
	}
	if svg.ConfigHash == opts.ArtifactKeyOpts(model.KindBuddy, FormatSVG).ConfigHash {
		t.Error("bitmap and buddy configs should hash differently")
	}

	titled := opts
	titled.Title = "heap"
	if titled.ArtifactKeyOpts(model.KindBitmap, FormatSVG).ConfigHash == svg.ConfigHash {
		t.Error("title should change the config hash")
	}
	bare := opts
	bare.Transparent = true
	if bare.ArtifactKeyOpts(model.KindBitmap, FormatPNG).ConfigHash == png.ConfigHash {
		t.Error("transparency should change the config hash")
	}

	plain := opts.GraphKeyOpts(FormatSVG)
	opts.GraphColored = true
	colored := opts.GraphKeyOpts(FormatSVG)
	if plain.Palette != "" || colored.Palette == "" {
		t.Errorf("palette hash belongs in colored graph keys only: %+v %+v", plain, colored)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"svg":  "image/svg+xml",
		"png":  "image/png",
		"pdf":  "application/pdf",
		"json": "application/json",
		"dot":  "text/vnd.graphviz",
		"gif":  "application/octet-stream",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", format, got, want)
		}
	}
}
