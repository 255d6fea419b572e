// Package gpu2d is the OpenGL-backed rasterizer the engine's render
// step drives: it owns the three shader programs (flat-color quads,
// alpha-blended glyph textures and the full-surface overlay) and the
// vertex buffers that feed them,
// grounded on the teacher's inline GL setup but narrowed to the flat
// cell-grid surface the terminal engine needs, with no tab/pane/panel
// rendering of its own.
package gpu2d

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/javanhut/raventerm/fontsvc"
	"github.com/javanhut/raventerm/screen"
	"github.com/javanhut/raventerm/termcolor"
)

const quadVertexShader = `
#version 410 core
layout (location = 0) in vec2 aPos;
uniform mat4 projection;
void main() {
	gl_Position = projection * vec4(aPos, 0.0, 1.0);
}
` + "\x00"

const quadFragmentShader = `
#version 410 core
out vec4 FragColor;
uniform vec4 color;
void main() {
	FragColor = color;
}
` + "\x00"

const textVertexShader = `
#version 410 core
layout (location = 0) in vec4 vertex;
out vec2 TexCoords;
uniform mat4 projection;
void main() {
	gl_Position = projection * vec4(vertex.xy, 0.0, 1.0);
	TexCoords = vertex.zw;
}
` + "\x00"

const textFragmentShader = `
#version 410 core
in vec2 TexCoords;
out vec4 FragColor;
uniform sampler2D text;
uniform vec4 textColor;
void main() {
	float alpha = texture(text, TexCoords).r;
	FragColor = vec4(textColor.rgb, textColor.a * alpha);
}
` + "\x00"

const overlayFragmentShader = `
#version 410 core
in vec2 TexCoords;
out vec4 FragColor;
uniform sampler2D overlay;
void main() {
	FragColor = texture(overlay, TexCoords);
}
` + "\x00"

// Renderer draws a screen.Grid into the current GL context using a
// previously uploaded font atlas.
type Renderer struct {
	quadProgram uint32
	textProgram uint32

	quadVAO, quadVBO uint32
	textVAO, textVBO uint32

	overlayProgram         uint32
	overlayVAO, overlayVBO uint32
	overlayProjLoc         int32
	overlayTexLoc          int32
	overlayTexture         uint32

	quadColorLoc, quadProjLoc          int32
	textColorLoc, textProjLoc, textLoc int32

	atlasTexture uint32
	glyphs       map[rune]fontsvc.Glyph
	cellWidth    float32
	cellHeight   float32
}

// New compiles the quad, glyph and overlay shader programs and
// allocates their vertex buffers. The caller must already have a current GL context.
func New() (*Renderer, error) {
	r := &Renderer{}

	var err error
	r.quadProgram, err = createProgram(quadVertexShader, quadFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("quad shader: %w", err)
	}
	r.quadColorLoc = gl.GetUniformLocation(r.quadProgram, gl.Str("color\x00"))
	r.quadProjLoc = gl.GetUniformLocation(r.quadProgram, gl.Str("projection\x00"))

	r.textProgram, err = createProgram(textVertexShader, textFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("text shader: %w", err)
	}
	r.textColorLoc = gl.GetUniformLocation(r.textProgram, gl.Str("textColor\x00"))
	r.textProjLoc = gl.GetUniformLocation(r.textProgram, gl.Str("projection\x00"))
	r.textLoc = gl.GetUniformLocation(r.textProgram, gl.Str("text\x00"))

	r.overlayProgram, err = createProgram(textVertexShader, overlayFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("overlay shader: %w", err)
	}
	r.overlayProjLoc = gl.GetUniformLocation(r.overlayProgram, gl.Str("projection\x00"))
	r.overlayTexLoc = gl.GetUniformLocation(r.overlayProgram, gl.Str("overlay\x00"))

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 6*2*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.GenVertexArrays(1, &r.textVAO)
	gl.GenBuffers(1, &r.textVBO)
	gl.BindVertexArray(r.textVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.textVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, 4*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.GenVertexArrays(1, &r.overlayVAO)
	gl.GenBuffers(1, &r.overlayVBO)
	gl.BindVertexArray(r.overlayVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.overlayVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, 4*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return r, nil
}

// UploadAtlas uploads a rasterized font atlas as the current glyph
// texture, replacing any texture uploaded previously.
func (r *Renderer) UploadAtlas(atlas *fontsvc.Atlas) {
	if r.atlasTexture != 0 {
		gl.DeleteTextures(1, &r.atlasTexture)
	}
	gl.GenTextures(1, &r.atlasTexture)
	gl.BindTexture(gl.TEXTURE_2D, r.atlasTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(atlas.Size), int32(atlas.Size), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(atlas.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.glyphs = atlas.Glyphs
	r.cellWidth = atlas.CellWidth
	r.cellHeight = atlas.CellHeight
}

// UploadOverlay uploads a full-RGBA image (typically a crtfx mask) as
// the current post-process overlay texture, replacing any uploaded
// previously.
func (r *Renderer) UploadOverlay(img image.Image) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rgba := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}

	if r.overlayTexture != 0 {
		gl.DeleteTextures(1, &r.overlayTexture)
	}
	gl.GenTextures(1, &r.overlayTexture)
	gl.BindTexture(gl.TEXTURE_2D, r.overlayTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// DrawOverlay draws the uploaded overlay texture as a single
// full-surface quad, alpha-blended over whatever has been drawn so
// far. A no-op when no overlay has been uploaded.
func (r *Renderer) DrawOverlay(width, height float32, proj [16]float32) {
	if r.overlayTexture == 0 {
		return
	}
	vertices := []float32{
		0, 0, 0, 0,
		width, 0, 1, 0,
		width, height, 1, 1,
		0, 0, 0, 0,
		width, height, 1, 1,
		0, height, 0, 1,
	}

	gl.UseProgram(r.overlayProgram)
	gl.UniformMatrix4fv(r.overlayProjLoc, 1, false, &proj[0])
	gl.Uniform1i(r.overlayTexLoc, 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.overlayTexture)

	gl.BindVertexArray(r.overlayVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.overlayVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// CellSize returns the glyph cell dimensions from the uploaded atlas.
func (r *Renderer) CellSize() (float32, float32) {
	return r.cellWidth, r.cellHeight
}

// Clear fills the framebuffer with a single color.
func Clear(c termcolor.Color) {
	fr, fg, fb, fa := rgbaOf(c)
	gl.ClearColor(fr, fg, fb, fa)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// DrawRect draws a flat-colored rectangle.
func (r *Renderer) DrawRect(x, y, w, h float32, c termcolor.Color, proj [16]float32) {
	vertices := []float32{
		x, y,
		x + w, y,
		x + w, y + h,
		x, y,
		x + w, y + h,
		x, y + h,
	}
	fr, fg, fb, fa := rgbaOf(c)
	clr := [4]float32{fr, fg, fb, fa}

	gl.UseProgram(r.quadProgram)
	gl.UniformMatrix4fv(r.quadProjLoc, 1, false, &proj[0])
	gl.Uniform4fv(r.quadColorLoc, 1, &clr[0])

	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// DrawChar draws a single glyph from the uploaded atlas, falling back
// to '?' when the rune was not packed into it.
func (r *Renderer) DrawChar(x, y float32, char rune, c termcolor.Color, proj [16]float32) {
	glyph, ok := r.glyphs[char]
	if !ok {
		glyph, ok = r.glyphs['?']
		if !ok {
			return
		}
	}

	w := float32(glyph.PixelWidth)
	h := float32(glyph.PixelHeight)
	tx, ty, tw, th := glyph.X, glyph.Y, glyph.Width, glyph.Height

	vertices := []float32{
		x, y - h, tx, ty,
		x + w, y - h, tx + tw, ty,
		x + w, y, tx + tw, ty + th,
		x, y - h, tx, ty,
		x + w, y, tx + tw, ty + th,
		x, y, tx, ty + th,
	}
	fr, fg, fb, fa := rgbaOf(c)
	clr := [4]float32{fr, fg, fb, fa}

	gl.UseProgram(r.textProgram)
	gl.UniformMatrix4fv(r.textProjLoc, 1, false, &proj[0])
	gl.Uniform4fv(r.textColorLoc, 1, &clr[0])
	gl.Uniform1i(r.textLoc, 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.atlasTexture)

	gl.BindVertexArray(r.textVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.textVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// DrawGrid draws every cell of a screen.Grid: its background rect
// first, then its glyph, then the cursor block if visible. Rows grow
// downward from the top-left origin of the drawing area.
func (r *Renderer) DrawGrid(g *screen.Grid, originX, originY float32, cursorColor termcolor.Color, proj [16]float32) {
	cw, ch := r.CellSize()
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Columns(); col++ {
			cell := g.Cell(row, col)
			x := originX + float32(col)*cw
			y := originY + float32(row+1)*ch

			if cell.Bg != termcolor.Default() {
				r.DrawRect(x, y-ch, cw, ch, cell.Bg, proj)
			}
			if cell.Char != ' ' && cell.Char != 0 {
				r.DrawChar(x, y, cell.Char, cell.Fg, proj)
			}
		}
	}

	if g.CursorVisible() {
		cur := g.Cursor()
		x := originX + float32(cur.Col)*cw
		y := originY + float32(cur.Row)*ch
		r.DrawRect(x, y, cw, ch, cursorColor, proj)
	}
}

// Ortho builds the column-major orthographic projection matrix the
// shaders expect for a surface of the given pixel size.
func Ortho(width, height float32) [16]float32 {
	left, right, bottom, top := float32(0), width, height, float32(0)
	const near, far = -1, 1
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}

func rgbaOf(c termcolor.Color) (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

func createProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("linking program: %s", infoLog)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("compiling shader: %s", infoLog)
	}
	return shader, nil
}
