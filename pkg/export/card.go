// Package export renders the love letter as a keepsake card image.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/valentine/pkg/content"
	"github.com/vanderheijden86/valentine/pkg/metrics"
)

// CardOptions controls keepsake card export.
type CardOptions struct {
	Path   string   // Output path; format inferred from extension when Format empty
	Format string   // "svg" or "png" (case-insensitive)
	Title  string   // Header line, e.g. "For My Love"
	Lines  []string // Letter body; empty lines are paragraph breaks
	Footer string   // Closing line under the body
}

// LetterCard builds card options for c's letter. Path is left for the
// caller.
func LetterCard(c content.Content) CardOptions {
	c = c.WithDefaults()
	return CardOptions{
		Title:  "For " + c.Name,
		Lines:  c.Letter.Lines,
		Footer: c.Final.Subtitle,
	}
}

const (
	cardWidth   = 560
	cardPadding = 48
	headerH     = 96
	lineH       = 22
	footerH     = 72
	maxLineLen  = 64
)

var (
	colorPaper  = color.RGBA{0xff, 0xf5, 0xf7, 0xff}
	colorBorder = color.RGBA{0xfd, 0xa4, 0xaf, 0xff}
	colorMargin = color.RGBA{0xfb, 0x71, 0x85, 0x80}
	colorInk    = color.RGBA{0x4c, 0x05, 0x19, 0xff}
	colorAccent = color.RGBA{0xe1, 0x1d, 0x48, 0xff}
	colorSubtle = color.RGBA{0x9f, 0x12, 0x39, 0xff}
)

type cardLayout struct {
	Width, Height int
	Title         string
	Lines         []string
	Footer        string
}

func (l cardLayout) bodyTop() int { return headerH + 8 }

func (l cardLayout) lineY(i int) int { return l.bodyTop() + (i+1)*lineH }

func buildCardLayout(opts CardOptions) cardLayout {
	lines := make([]string, len(opts.Lines))
	for i, line := range opts.Lines {
		lines[i] = truncate(line, maxLineLen)
	}
	return cardLayout{
		Width:  cardWidth,
		Height: headerH + 8 + len(lines)*lineH + footerH,
		Title:  truncate(opts.Title, maxLineLen-8),
		Lines:  lines,
		Footer: truncate(opts.Footer, maxLineLen),
	}
}

// CardFormat resolves the output format for opts and, when the path has no
// extension, the path with the default extension appended.
func CardFormat(opts CardOptions) (format, path string, err error) {
	path = opts.Path
	format = strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg"
			if path != "" && filepath.Ext(path) == "" {
				path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return "", "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if path == "" {
		return "", "", fmt.Errorf("output path is required")
	}
	return format, path, nil
}

// SaveCard renders the card to opts.Path and returns the path written.
func SaveCard(opts CardOptions) (string, error) {
	defer metrics.Timer(metrics.CardExport)()

	if len(opts.Lines) == 0 {
		return "", fmt.Errorf("no letter lines to export")
	}
	format, path, err := CardFormat(opts)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildCardLayout(opts)
	switch format {
	case "png":
		err = renderCardPNG(path, layout)
	default:
		err = renderCardSVG(path, layout)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// SaveCards renders one card per format next to base (base + "." + format)
// concurrently. The returned paths follow the order of formats.
func SaveCards(opts CardOptions, base string, formats ...string) ([]string, error) {
	if len(formats) == 0 {
		formats = []string{"svg", "png"}
	}
	paths := make([]string, len(formats))

	var g errgroup.Group
	for i, format := range formats {
		o := opts
		o.Format = format
		o.Path = base + "." + strings.ToLower(strings.TrimPrefix(format, "."))
		g.Go(func() error {
			p, err := SaveCard(o)
			if err != nil {
				return fmt.Errorf("%s card: %w", format, err)
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func renderCardPNG(path string, layout cardLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorPaper)
	dc.Clear()

	dc.SetColor(colorBorder)
	dc.SetLineWidth(3)
	dc.DrawRoundedRectangle(12, 12, float64(layout.Width)-24, float64(layout.Height)-24, 14)
	dc.Stroke()

	// margin line, like ruled letter paper
	dc.SetColor(colorMargin)
	dc.SetLineWidth(1)
	dc.DrawLine(cardPadding-12, float64(layout.bodyTop()), cardPadding-12, float64(layout.Height-footerH))
	dc.Stroke()

	dc.SetFontFace(basicfont.Face7x13)

	drawHeart(dc, float64(layout.Width)/2, 36, 18, colorAccent)
	dc.SetColor(colorAccent)
	dc.DrawStringAnchored(layout.Title, float64(layout.Width)/2, 72, 0.5, 0.5)

	dc.SetColor(colorInk)
	for i, line := range layout.Lines {
		if line == "" {
			continue
		}
		dc.DrawStringAnchored(line, cardPadding, float64(layout.lineY(i)), 0, 0.5)
	}

	footerY := float64(layout.Height - footerH/2)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(layout.Footer, float64(layout.Width)/2, footerY, 0.5, 0.5)
	drawHeart(dc, 36, footerY-6, 10, colorBorder)
	drawHeart(dc, float64(layout.Width)-36, footerY-6, 10, colorBorder)

	return dc.SavePNG(path)
}

// drawHeart fills a heart of width size centred on (cx, cy).
func drawHeart(dc *gg.Context, cx, cy, size float64, c color.Color) {
	s := size / 2
	dc.SetColor(c)
	dc.NewSubPath()
	dc.MoveTo(cx, cy+s)
	dc.CubicTo(cx-s*1.6, cy, cx-s*0.9, cy-s*1.3, cx, cy-s*0.45)
	dc.CubicTo(cx+s*0.9, cy-s*1.3, cx+s*1.6, cy, cx, cy+s)
	dc.ClosePath()
	dc.Fill()
}

func renderCardSVG(path string, layout cardLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeCardSVG(file, layout); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCardSVG renders the card as SVG to w.
func WriteCardSVG(w io.Writer, opts CardOptions) error {
	return writeCardSVG(w, buildCardLayout(opts))
}

func writeCardSVG(w io.Writer, layout cardLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorPaper)))
	canvas.Roundrect(12, 12, layout.Width-24, layout.Height-24, 14, 14,
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:3", css(colorBorder)))
	canvas.Line(cardPadding-12, layout.bodyTop(), cardPadding-12, layout.Height-footerH,
		fmt.Sprintf("stroke:%s;stroke-width:1", css(colorMargin)))

	canvas.Path(heartPath(layout.Width/2, 36, 18), fmt.Sprintf("fill:%s", css(colorAccent)))
	canvas.Text(layout.Width/2, 76, layout.Title,
		fmt.Sprintf("fill:%s;font-size:18px;font-family:serif;font-style:italic;text-anchor:middle", css(colorAccent)))

	for i, line := range layout.Lines {
		if line == "" {
			continue
		}
		canvas.Text(cardPadding, layout.lineY(i)+4, line,
			fmt.Sprintf("fill:%s;font-size:14px;font-family:serif", css(colorInk)))
	}

	footerY := layout.Height - footerH/2
	canvas.Text(layout.Width/2, footerY+4, layout.Footer,
		fmt.Sprintf("fill:%s;font-size:14px;font-family:serif;text-anchor:middle", css(colorSubtle)))
	canvas.Path(heartPath(36, footerY-6, 10), fmt.Sprintf("fill:%s", css(colorBorder)))
	canvas.Path(heartPath(layout.Width-36, footerY-6, 10), fmt.Sprintf("fill:%s", css(colorBorder)))

	canvas.End()
	return nil
}

// heartPath is the SVG path for the same shape drawHeart fills.
func heartPath(cx, cy, size int) string {
	s := float64(size) / 2
	x, y := float64(cx), float64(cy)
	return fmt.Sprintf("M%.1f %.1f C%.1f %.1f %.1f %.1f %.1f %.1f C%.1f %.1f %.1f %.1f %.1f %.1f Z",
		x, y+s,
		x-s*1.6, y, x-s*0.9, y-s*1.3, x, y-s*0.45,
		x+s*0.9, y-s*1.3, x+s*1.6, y, x, y+s)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
