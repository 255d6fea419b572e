// Package fontsvc rasterizes a monospace font into a CPU-side glyph
// atlas: the same glyph-packing approach the teacher's renderer used
// inline, pulled apart from its GL upload so the rasterizer has no
// OpenGL dependency of its own. gpu2d is the only caller that turns
// the resulting Atlas into a texture.
package fontsvc

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph describes one rasterized character's position within an
// Atlas's image, in both normalized (0..1) and pixel coordinates.
type Glyph struct {
	X, Y          float32
	Width, Height float32
	PixelWidth    int
	PixelHeight   int
}

// Atlas is a square alpha-only image packed with glyphs for a fixed
// set of character ranges, plus the cell metrics derived from the
// font's own advance/ascent/descent.
type Atlas struct {
	Pix        []byte // single-channel alpha, Size*Size bytes
	Size       int
	Glyphs     map[rune]Glyph
	CellWidth  float32
	CellHeight float32
}

// charRanges mirrors the teacher's atlas coverage: ASCII, Latin-1,
// box-drawing/block/geometric glyphs terminal output actually uses,
// and the Nerd Font private-use ranges prompts commonly rely on.
var charRanges = []struct{ start, end rune }{
	{32, 126},
	{160, 255},
	{0x2500, 0x257F},
	{0x2580, 0x259F},
	{0x25A0, 0x25FF},
	{0x2600, 0x26FF},
	{0x2700, 0x27BF},
	{0xE0A0, 0xE0D4},
	{0xE200, 0xE2A9},
	{0xE5FA, 0xE6B5},
	{0xE700, 0xE7C5},
	{0xEA60, 0xEC1E},
	{0xED00, 0xEFC1},
	{0xF000, 0xF2E0},
	{0xF300, 0xF372},
	{0xF400, 0xF533},
	{0xF500, 0xFD46},
}

const defaultAtlasSize = 2048

// searchPaths is consulted, in order, when no explicit font path is
// given: the CRT_FONT_PATH override, then common monospace fonts
// likely to be installed system-wide.
var searchPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
	"/usr/share/fonts/TTF/DejaVuSansMono.ttf",
	"/System/Library/Fonts/Menlo.ttc",
}

// Locate resolves the font file to load: the CRT_FONT_PATH
// environment variable if set, otherwise the first existing entry in
// searchPaths. It returns an error when nothing usable is found.
func Locate() (string, error) {
	if p := os.Getenv("CRT_FONT_PATH"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("CRT_FONT_PATH %q does not exist", p)
	}
	for _, p := range searchPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no usable monospace font found; set CRT_FONT_PATH")
}

// Load parses the font file at path and rasterizes it into an Atlas
// at the given point size.
func Load(path string, size float64) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font %s: %w", path, err)
	}
	return loadData(data, size)
}

func loadData(fontData []byte, size float64) (*Atlas, error) {
	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	cellHeight := float32((metrics.Ascent + metrics.Descent).Ceil())
	advance, _ := face.GlyphAdvance('M')
	cellWidth := float32(advance.Ceil())

	atlasSize := defaultAtlasSize
	img := image.NewRGBA(image.Rect(0, 0, atlasSize, atlasSize))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	drawer := &font.Drawer{Dst: img, Src: image.White, Face: face}

	glyphs := make(map[rune]Glyph)
	x, y := 0, metrics.Ascent.Ceil()
	charWidth, charHeight := int(cellWidth), int(cellHeight)

	for _, cr := range charRanges {
		for c := cr.start; c <= cr.end; c++ {
			if x+charWidth > atlasSize {
				x = 0
				y += charHeight
			}
			if y+charHeight > atlasSize {
				continue
			}
			if _, ok := face.GlyphAdvance(c); !ok {
				continue
			}

			drawer.Dot = fixed.P(x, y)
			drawer.DrawString(string(c))

			glyphs[c] = Glyph{
				X:           float32(x) / float32(atlasSize),
				Y:           float32(y-metrics.Ascent.Ceil()) / float32(atlasSize),
				Width:       float32(charWidth) / float32(atlasSize),
				Height:      float32(charHeight) / float32(atlasSize),
				PixelWidth:  charWidth,
				PixelHeight: charHeight,
			}
			x += charWidth
		}
	}

	alpha := make([]byte, atlasSize*atlasSize)
	for i := 0; i < atlasSize*atlasSize; i++ {
		alpha[i] = img.Pix[i*4+3]
	}

	return &Atlas{
		Pix:        alpha,
		Size:       atlasSize,
		Glyphs:     glyphs,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
	}, nil
}

// Glyph looks up a rune's atlas entry, reporting false when the font
// has no glyph for it (callers typically fall back to '?' or a box).
func (a *Atlas) Glyph(r rune) (Glyph, bool) {
	g, ok := a.Glyphs[r]
	return g, ok
}
