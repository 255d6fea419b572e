// Package keymap translates a non-repeat key event (and plain text
// input) into the byte sequence written to the PTY, per the fixed
// table the engine recognizes. It depends on glfw's key/modifier enum,
// the same one the windowing layer already works in, rather than
// inventing a parallel key-code type.
package keymap

import "github.com/go-gl/glfw/v3.3/glfw"

// Translate returns the bytes to send for a key press, or nil when the
// key has no mapped byte sequence (callers should then fall back to
// the text-input callback for ordinary character entry).
func Translate(key glfw.Key, mods glfw.ModifierKey, appCursorKeys bool) []byte {
	ctrl := mods&glfw.ModControl != 0

	switch key {
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return []byte{'\r'}
	case glfw.KeyBackspace:
		return []byte{0x7f}
	case glfw.KeyTab:
		return []byte{'\t'}
	case glfw.KeyEscape:
		return []byte{0x1b}
	case glfw.KeyUp:
		return arrowSeq('A', appCursorKeys)
	case glfw.KeyDown:
		return arrowSeq('B', appCursorKeys)
	case glfw.KeyRight:
		return arrowSeq('C', appCursorKeys)
	case glfw.KeyLeft:
		return arrowSeq('D', appCursorKeys)
	case glfw.KeyPageUp:
		return []byte("\x1b[5~")
	case glfw.KeyPageDown:
		return []byte("\x1b[6~")
	case glfw.KeyHome:
		return []byte("\x1b[H")
	case glfw.KeyEnd:
		return []byte("\x1b[F")
	case glfw.KeyDelete:
		return []byte("\x1b[3~")
	}

	if key == glfw.KeySpace && ctrl {
		return []byte{0}
	}

	if ctrl && key >= glfw.KeyA && key <= glfw.KeyZ {
		return []byte{byte(key - glfw.KeyA + 1)}
	}

	return nil
}

func arrowSeq(final byte, appCursorKeys bool) []byte {
	if appCursorKeys {
		return []byte{0x1b, 'O', final}
	}
	return []byte{0x1b, '[', final}
}

// TranslateText forwards printable text input (from the windowing
// layer's character callback) verbatim, UTF-8 encoded.
func TranslateText(r rune) []byte {
	buf := make([]byte, 4)
	n := encodeRune(buf, r)
	return buf[:n]
}

func encodeRune(buf []byte, r rune) int {
	switch {
	case r < 0x80:
		buf[0] = byte(r)
		return 1
	case r < 0x800:
		buf[0] = byte(0xC0 | (r >> 6))
		buf[1] = byte(0x80 | (r & 0x3F))
		return 2
	case r < 0x10000:
		buf[0] = byte(0xE0 | (r >> 12))
		buf[1] = byte(0x80 | ((r >> 6) & 0x3F))
		buf[2] = byte(0x80 | (r & 0x3F))
		return 3
	default:
		buf[0] = byte(0xF0 | (r >> 18))
		buf[1] = byte(0x80 | ((r >> 12) & 0x3F))
		buf[2] = byte(0x80 | ((r >> 6) & 0x3F))
		buf[3] = byte(0x80 | (r & 0x3F))
		return 4
	}
}
