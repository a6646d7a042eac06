package effects

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type cell struct {
	glyph string
	color lipgloss.TerminalColor
	width int
	cont  bool // right half of a wide glyph
}

// Canvas is a fixed-size grid of terminal cells for the decoration layer.
type Canvas struct {
	w, h  int
	cells []cell
}

// NewCanvas returns an empty canvas. Negative sizes are treated as zero.
func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	return &Canvas{w: w, h: h, cells: make([]cell, w*h)}
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.w }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.h }

// Set draws glyph at (x, y). Glyphs that do not fit, or land outside the
// canvas, are dropped. Wide glyphs take two cells.
func (c *Canvas) Set(x, y int, glyph string, color lipgloss.TerminalColor) {
	if glyph == "" || y < 0 || y >= c.h || x < 0 {
		return
	}
	gw := runewidth.StringWidth(glyph)
	if gw < 1 {
		gw = 1
	}
	if x+gw > c.w {
		return
	}
	c.clear(x, y)
	if gw > 1 {
		c.clear(x+1, y)
	}
	row := y * c.w
	c.cells[row+x] = cell{glyph: glyph, color: color, width: gw}
	for i := 1; i < gw; i++ {
		c.cells[row+x+i] = cell{cont: true}
	}
}

// clear empties the cell at (x, y), including the other half of a wide glyph
// it belongs to.
func (c *Canvas) clear(x, y int) {
	row := y * c.w
	cur := c.cells[row+x]
	switch {
	case cur.cont && x > 0:
		c.cells[row+x-1] = cell{}
	case cur.width > 1 && x+1 < c.w:
		c.cells[row+x+1] = cell{}
	}
	c.cells[row+x] = cell{}
}

// Glyph returns the glyph drawn at (x, y), or "" for an empty cell.
func (c *Canvas) Glyph(x, y int) string {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return ""
	}
	return c.cells[y*c.w+x].glyph
}

// Count returns the number of glyphs on the canvas.
func (c *Canvas) Count() int {
	n := 0
	for _, cl := range c.cells {
		if cl.glyph != "" {
			n++
		}
	}
	return n
}

// Row renders cells [x0, x1) of row y. Wide glyphs cut by either edge become
// spaces, so the result is always exactly x1-x0 cells wide.
func (c *Canvas) Row(y, x0, x1 int) string {
	x0, x1 = max(x0, 0), min(x1, c.w)
	if y < 0 || y >= c.h || x0 >= x1 {
		return strings.Repeat(" ", max(x1-x0, 0))
	}
	var b strings.Builder
	row := y * c.w
	for x := x0; x < x1; x++ {
		cl := c.cells[row+x]
		switch {
		case cl.cont:
			if x == x0 {
				b.WriteByte(' ')
			}
		case cl.glyph == "":
			b.WriteByte(' ')
		case x+cl.width > x1:
			b.WriteString(strings.Repeat(" ", x1-x))
			x = x1
		default:
			if cl.color != nil {
				b.WriteString(lipgloss.NewStyle().Foreground(cl.color).Render(cl.glyph))
			} else {
				b.WriteString(cl.glyph)
			}
		}
	}
	return b.String()
}

// String renders the whole canvas.
func (c *Canvas) String() string {
	lines := make([]string, c.h)
	for y := range lines {
		lines[y] = c.Row(y, 0, c.w)
	}
	return strings.Join(lines, "\n")
}

// Overlay centers fg on the canvas. Cells covered by fg's bounding box show
// fg; everything else shows the canvas. If fg is larger than the canvas it
// is returned unchanged.
func Overlay(c *Canvas, fg string) string {
	lines := strings.Split(fg, "\n")
	fw := 0
	for _, l := range lines {
		fw = max(fw, lipgloss.Width(l))
	}
	fh := len(lines)
	if fw > c.w || fh > c.h {
		return fg
	}

	left := (c.w - fw) / 2
	top := (c.h - fh) / 2

	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		if y < top || y >= top+fh {
			out[y] = c.Row(y, 0, c.w)
			continue
		}
		line := lines[y-top]
		pad := fw - lipgloss.Width(line)
		out[y] = c.Row(y, 0, left) + line + strings.Repeat(" ", pad) + c.Row(y, left+fw, c.w)
	}
	return strings.Join(out, "\n")
}
