package keymap

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestArrowKeys(t *testing.T) {
	cases := map[glfw.Key]string{
		glfw.KeyUp:    "\x1b[A",
		glfw.KeyDown:  "\x1b[B",
		glfw.KeyRight: "\x1b[C",
		glfw.KeyLeft:  "\x1b[D",
	}
	for key, want := range cases {
		got := Translate(key, 0, false)
		if string(got) != want {
			t.Errorf("Translate(%v) = %q, want %q", key, got, want)
		}
	}
}

func TestArrowKeysApplicationMode(t *testing.T) {
	got := Translate(glfw.KeyUp, 0, true)
	if string(got) != "\x1bOA" {
		t.Errorf("application-mode up arrow = %q, want \\x1bOA", got)
	}
}

func TestCtrlLetter(t *testing.T) {
	got := Translate(glfw.KeyA, glfw.ModControl, false)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("Ctrl+A = %v, want [1]", got)
	}
	got = Translate(glfw.KeyZ, glfw.ModControl, false)
	if len(got) != 1 || got[0] != 26 {
		t.Errorf("Ctrl+Z = %v, want [26]", got)
	}
}

func TestCtrlSpaceSendsNUL(t *testing.T) {
	got := Translate(glfw.KeySpace, glfw.ModControl, false)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Ctrl+Space = %v, want [0]", got)
	}
}

func TestBasicKeys(t *testing.T) {
	cases := map[glfw.Key]string{
		glfw.KeyEnter:     "\r",
		glfw.KeyBackspace: "\x7f",
		glfw.KeyTab:       "\t",
		glfw.KeyEscape:    "\x1b",
	}
	for key, want := range cases {
		got := Translate(key, 0, false)
		if string(got) != want {
			t.Errorf("Translate(%v) = %q, want %q", key, got, want)
		}
	}
}

func TestTranslateTextUTF8(t *testing.T) {
	got := TranslateText('€')
	if len(got) != 3 {
		t.Errorf("TranslateText(€) encoded length = %d, want 3", len(got))
	}
}

func TestUnmappedKeyReturnsNil(t *testing.T) {
	got := Translate(glfw.KeyF1, 0, false)
	if got != nil {
		t.Errorf("Translate(F1) = %v, want nil (unmapped)", got)
	}
}
