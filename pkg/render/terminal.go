package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each cell shows two framebuffer rows with the upper half block:
// fg is the top pixel, bg the bottom one. The framebuffer is expected in
// top-left orientation, as returned by Render.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Downsample returns a nearest-neighbor copy of fb that is cols pixels
// wide, keeping the aspect ratio. Terminal cells are about twice as tall as
// wide, which the half-block rows already account for.
func (fb *Framebuffer) Downsample(cols int) *Framebuffer {
	if cols <= 0 || fb.Width == 0 || fb.Height == 0 {
		return NewFramebuffer(0, 0)
	}
	rows := max(1, fb.Height*cols/fb.Width)
	out := NewFramebuffer(cols, rows)
	for y := range rows {
		sy := y * fb.Height / rows
		for x := range cols {
			out.Pixels[y*cols+x] = fb.GetPixel(x*fb.Width/cols, sy)
		}
	}
	return out
}

// Preview renders fb as half-block text cols cells wide, ready to print.
func Preview(fb *Framebuffer, cols int) string {
	small := fb.Downsample(cols)
	if small.Width == 0 {
		return ""
	}
	lines := (small.Height + 1) / 2
	scr := uv.NewScreenBuffer(small.Width, lines)
	small.Draw(scr, scr.Bounds())
	return scr.Render()
}
