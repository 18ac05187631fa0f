// Package sink renders layout diagrams to output formats.
//
// # Supported Formats
//
//   - SVG: Scalable vector graphics, drawn with github.com/ajstarks/svgo
//   - PNG: Raster output drawn in-process with github.com/fogleman/gg
//   - PDF: Print-ready output (requires rsvg-convert)
//   - JSON: The primitive list with resolved colors, for external tools
//
// # Usage
//
//	d, err := layout.Bitmap(snapshot, cfg)
//	svg := sink.RenderSVG(d, cfg.Palette)
//	png, err := sink.RenderPNG(d, cfg.Palette, sink.WithScale(2))
//	pdf, err := sink.RenderPDF(d, cfg.Palette)
//	data, err := sink.RenderJSON(d, cfg.Palette)
//
// Every renderer paints the canvas with the palette background first and
// then the primitives in diagram order, so later primitives cover earlier
// ones. Empty cells use the palette's Empty color. [WithoutBackground] and
// [WithTransparentPNG] skip the background fill.
//
// # PDF
//
// PDF output converts the SVG with rsvg-convert from librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// PNG output does not need it.
package sink
