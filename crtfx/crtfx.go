// Package crtfx synthesizes the CRT post-processing overlay: a
// scanline-and-vignette mask rasterized from generated SVG markup,
// the same oksvg/rasterx pipeline the teacher used to rasterize its
// window icon, repurposed here from a fixed icon asset to a
// procedurally built mask sized to the current framebuffer.
package crtfx

import (
	"fmt"
	"image"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Options controls how strong the vignette and scanline effects are.
type Options struct {
	// ScanlineSpacing is the vertical pixel gap between scanlines.
	// Zero disables scanlines.
	ScanlineSpacing int
	// ScanlineOpacity is the alpha (0..1) of each scanline.
	ScanlineOpacity float64
	// VignetteOpacity is the alpha (0..1) of the darkened frame edge.
	VignetteOpacity float64
}

// DefaultOptions returns a mild, typically-unnoticed-but-present CRT
// feel: thin scanlines every 3 pixels and a soft vignette.
func DefaultOptions() Options {
	return Options{ScanlineSpacing: 3, ScanlineOpacity: 0.08, VignetteOpacity: 0.35}
}

// BuildMask rasterizes a width x height RGBA overlay combining
// horizontal scanlines and a radial vignette, meant to be composited
// over the rendered frame with alpha blending.
func BuildMask(width, height int, opts Options) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("crtfx: invalid mask size %dx%d", width, height)
	}

	svg := buildSVG(width, height, opts)
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("crtfx: parsing generated mask svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	rasterizer := rasterx.NewDasher(width, height, scanner)
	icon.Draw(rasterizer, 1.0)

	return rgba, nil
}

// buildSVG generates markup for a radial-gradient vignette rect plus
// one thin rect per scanline row, all in one SVG document so a
// single oksvg parse handles the whole mask.
func buildSVG(width, height int, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, width, height)

	if opts.VignetteOpacity > 0 {
		b.WriteString(`<defs><radialGradient id="vg" cx="50%" cy="50%" r="75%">`)
		fmt.Fprintf(&b, `<stop offset="60%%" stop-color="#000000" stop-opacity="0"/>`)
		fmt.Fprintf(&b, `<stop offset="100%%" stop-color="#000000" stop-opacity="%.3f"/>`, opts.VignetteOpacity)
		b.WriteString(`</radialGradient></defs>`)
		fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" fill="url(#vg)"/>`, width, height)
	}

	if opts.ScanlineSpacing > 0 && opts.ScanlineOpacity > 0 {
		for y := 0; y < height; y += opts.ScanlineSpacing {
			fmt.Fprintf(&b, `<rect x="0" y="%d" width="%d" height="1" fill="#000000" fill-opacity="%.3f"/>`,
				y, width, opts.ScanlineOpacity)
		}
	}

	b.WriteString(`</svg>`)
	return b.String()
}
