package config

import "testing"

func TestThemeLabelKnownAndUnknown(t *testing.T) {
	if got := ThemeLabel("crow-black"); got != "Crow Black" {
		t.Errorf("ThemeLabel(crow-black) = %q, want Crow Black", got)
	}
	if got := ThemeLabel(""); got != "Raven Blue" {
		t.Errorf("ThemeLabel(\"\") = %q, want Raven Blue", got)
	}
	if got := ThemeLabel("not-a-theme"); got != "not-a-theme" {
		t.Errorf("ThemeLabel(unknown) = %q, want passthrough", got)
	}
}

func TestColorsForThemeFallsBackToRavenBlue(t *testing.T) {
	known := ColorsForTheme("raven-blue")
	unknown := ColorsForTheme("does-not-exist")
	if known != unknown {
		t.Errorf("ColorsForTheme(unknown) = %+v, want fallback %+v", unknown, known)
	}
}

func TestColorsForThemeDistinctPerTheme(t *testing.T) {
	a := ColorsForTheme("crow-black")
	b := ColorsForTheme("catppuccin-mocha")
	if a.Background == b.Background {
		t.Errorf("expected distinct backgrounds for different themes")
	}
}
