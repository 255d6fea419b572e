// Command raventerm is the engine's entry point: it opens a window,
// launches a shell under a PTY, and drives the single-threaded frame
// loop of poll input -> advance session -> render -> present, matching
// the teacher's main loop structure but replaced internals end to end.
package main

import (
	"log"
	"os"
	"time"

	"github.com/javanhut/raventerm/config"
	"github.com/javanhut/raventerm/crtfx"
	"github.com/javanhut/raventerm/fontsvc"
	"github.com/javanhut/raventerm/glfwinput"
	"github.com/javanhut/raventerm/gpu2d"
	"github.com/javanhut/raventerm/keymap"
	"github.com/javanhut/raventerm/ptyhost"
	"github.com/javanhut/raventerm/session"
)

const frameInterval = 16 * time.Millisecond

func main() {
	debug := os.Getenv("RAVEN_DEBUG") == "1"

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("raventerm: loading config: %v", err)
	}

	win, err := glfwinput.New(glfwinput.DefaultConfig())
	if err != nil {
		log.Fatalf("raventerm: creating window: %v", err)
	}
	defer win.Destroy()

	renderer, err := gpu2d.New()
	if err != nil {
		log.Fatalf("raventerm: initializing renderer: %v", err)
	}

	fontPath, err := fontsvc.Locate()
	if err != nil {
		log.Fatalf("raventerm: locating font: %v", err)
	}
	atlas, err := fontsvc.Load(fontPath, cfg.FontSize)
	if err != nil {
		log.Fatalf("raventerm: loading font: %v", err)
	}
	renderer.UploadAtlas(atlas)

	width, height := win.FramebufferSize()
	cellW, cellH := renderer.CellSize()
	cols, rows := gridSize(width, height, cellW, cellH)

	sess, err := session.New(ptyhost.Options{
		Shell:         cfg.Shell.Path,
		Cols:          uint16(cols),
		Rows:          uint16(rows),
		AdditionalEnv: cfg.Shell.AdditionalEnv,
	})
	if err != nil {
		log.Fatalf("raventerm: starting shell: %v", err)
	}
	defer sess.Close()

	theme := config.ColorsForTheme(cfg.Theme)
	overlayW, overlayH := width, height
	if mask, err := crtfx.BuildMask(width, height, crtfx.DefaultOptions()); err != nil {
		log.Printf("raventerm: building CRT overlay: %v", err)
	} else {
		renderer.UploadOverlay(mask)
	}

	appCursorKeys := false
	var frame uint64

	for !win.ShouldClose() {
		for _, ev := range win.Poll() {
			switch ev.Kind {
			case glfwinput.EventQuit:
				win.Destroy()
				return
			case glfwinput.EventResize:
				cols, rows = gridSize(ev.Width, ev.Height, cellW, cellH)
				if err := sess.Resize(cols, rows); err != nil {
					log.Printf("raventerm: resizing session: %v", err)
				}
				overlayW, overlayH = ev.Width, ev.Height
				if mask, err := crtfx.BuildMask(overlayW, overlayH, crtfx.DefaultOptions()); err != nil {
					log.Printf("raventerm: rebuilding CRT overlay: %v", err)
				} else {
					renderer.UploadOverlay(mask)
				}
			case glfwinput.EventKeyDown:
				if bytes := keymap.Translate(ev.Key, ev.Mods, appCursorKeys); bytes != nil {
					sess.Write(bytes)
				}
			case glfwinput.EventTextInput:
				sess.Write(keymap.TranslateText(ev.Rune))
			}
		}

		if !sess.Update() {
			break
		}

		width, height = win.FramebufferSize()
		gpu2d.Clear(theme.Background)
		proj := gpu2d.Ortho(float32(width), float32(height))
		renderer.DrawGrid(sess.Grid, 0, 0, theme.Cursor, proj)
		renderer.DrawOverlay(float32(overlayW), float32(overlayH), proj)

		win.SwapBuffers()
		if debug {
			frame++
			log.Printf("raventerm: frame=%d grid=%dx%d cols/rows", frame, cols, rows)
		}
		time.Sleep(frameInterval)
	}
}

// gridSize converts a framebuffer size in pixels to a column/row
// count given the active font's cell dimensions, clamped to a minimum
// usable terminal size.
func gridSize(width, height int, cellW, cellH float32) (cols, rows int) {
	if cellW <= 0 || cellH <= 0 {
		return 80, 24
	}
	cols = int(float32(width) / cellW)
	rows = int(float32(height) / cellH)
	if cols < 2 {
		cols = 2
	}
	if rows < 2 {
		rows = 2
	}
	return cols, rows
}
