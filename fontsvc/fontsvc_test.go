package fontsvc

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocatePrefersExplicitOverride(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "fake.ttf")
	if err := os.WriteFile(fake, []byte("not a real font"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CRT_FONT_PATH", fake)

	got, err := Locate()
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != fake {
		t.Errorf("Locate() = %q, want %q", got, fake)
	}
}

func TestLocateRejectsMissingOverride(t *testing.T) {
	t.Setenv("CRT_FONT_PATH", "/nonexistent/does-not-exist.ttf")
	if _, err := Locate(); err == nil {
		t.Fatal("Locate with a nonexistent CRT_FONT_PATH should error, not silently fall through")
	}
}

func TestAtlasGlyphLookup(t *testing.T) {
	a := &Atlas{Glyphs: map[rune]Glyph{'A': {PixelWidth: 8, PixelHeight: 16}}}

	g, ok := a.Glyph('A')
	if !ok || g.PixelWidth != 8 {
		t.Fatalf("Glyph('A') = %+v, %v", g, ok)
	}

	if _, ok := a.Glyph('漢'); ok {
		t.Fatalf("Glyph for an unpacked rune should report ok=false")
	}
}
