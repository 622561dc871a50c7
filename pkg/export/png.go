package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	pngWidth      = 800
	pngMargin     = 32
	pngScale      = 2
	glyphWidth    = 7
	glyphAscent   = 11
	lineHeight    = 16
	tableRowSize  = 20
	kpiBoxHeight  = 44
	kpiBoxSpacing = 12
)

var (
	inkColor    = color.NRGBA{R: 17, G: 24, B: 39, A: 255}
	mutedColor  = color.NRGBA{R: 107, G: 114, B: 128, A: 255}
	accentColor = color.NRGBA{R: 37, G: 99, B: 235, A: 255}
	headerFill  = color.NRGBA{R: 31, G: 41, B: 55, A: 255}
	stripeFill  = color.NRGBA{R: 249, G: 250, B: 251, A: 255}
	kpiFill     = color.NRGBA{R: 239, G: 246, B: 255, A: 255}
)

// PNGRenderer rasterizes documents on a white background at twice the
// logical resolution.
type PNGRenderer struct {
	Width int
	Scale int
}

// NewPNGRenderer returns a renderer with the default page width and scale.
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{Width: pngWidth, Scale: pngScale}
}

func (r *PNGRenderer) Format() Format      { return FormatPNG }
func (r *PNGRenderer) ContentType() string { return "image/png" }

// Render draws doc and encodes the image as PNG.
func (r *PNGRenderer) Render(w io.Writer, doc Document) error {
	width, scale := r.Width, r.Scale
	if width <= 0 {
		width = pngWidth
	}
	if scale <= 0 {
		scale = pngScale
	}
	height := (&canvas{width: width}).layout(doc)
	img := imaging.New(width, height, color.White)
	(&canvas{dst: img, width: width}).layout(doc)
	scaled := imaging.Resize(img, width*scale, height*scale, imaging.NearestNeighbor)
	if err := imaging.Encode(w, scaled, imaging.PNG); err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}
	return nil
}

// canvas lays out a document top to bottom. With a nil dst it only measures.
type canvas struct {
	dst   draw.Image
	width int
	y     int
}

func (c *canvas) layout(doc Document) int {
	inner := c.width - 2*pngMargin
	c.y = pngMargin

	c.text(pngMargin, doc.Title, accentColor, true)
	c.textRight(doc.Organization, inkColor)
	c.y += lineHeight + 4
	c.text(pngMargin, doc.Generated, mutedColor, false)
	c.textRight(doc.Confidentiality, mutedColor)
	c.y += lineHeight
	c.fill(image.Rect(pngMargin, c.y, pngMargin+inner, c.y+2), headerFill)
	c.y += 18

	for _, section := range doc.Sections {
		c.text(pngMargin, section.Heading, inkColor, true)
		c.y += lineHeight + 4
		for _, line := range wrap(asciiFold(section.Text), inner/glyphWidth) {
			c.text(pngMargin, line, inkColor, false)
			c.y += lineHeight
		}
		if len(section.KPIs) > 0 {
			c.y += 4
			c.kpis(section.KPIs, inner)
		}
		if section.Table != nil {
			c.y += 4
			c.table(*section.Table, inner)
		}
		c.y += 12
	}

	c.fill(image.Rect(pngMargin, c.y, pngMargin+inner, c.y+1), mutedColor)
	c.y += 10
	for _, line := range doc.Footer {
		c.textCenter(line, mutedColor)
		c.y += lineHeight
	}
	return c.y + pngMargin
}

func (c *canvas) kpis(kpis []KPI, inner int) {
	n := len(kpis)
	box := (inner - (n-1)*kpiBoxSpacing) / n
	for i, k := range kpis {
		x := pngMargin + i*(box+kpiBoxSpacing)
		c.fill(image.Rect(x, c.y, x+box, c.y+kpiBoxHeight), kpiFill)
		chars := (box - 16) / glyphWidth
		c.drawAt(x+8, c.y+4, truncate(asciiFold(k.Label), chars), mutedColor, false)
		c.drawAt(x+8, c.y+22, truncate(asciiFold(k.Value), chars), inkColor, true)
	}
	c.y += kpiBoxHeight + 8
}

func (c *canvas) table(t Table, inner int) {
	if len(t.Columns) == 0 {
		return
	}
	col := inner / len(t.Columns)
	chars := (col - 8) / glyphWidth
	c.fill(image.Rect(pngMargin, c.y, pngMargin+inner, c.y+tableRowSize), headerFill)
	for i, name := range t.Columns {
		c.drawAt(pngMargin+i*col+4, c.y+4, truncate(asciiFold(name), chars), color.White, true)
	}
	c.y += tableRowSize
	for r, row := range t.Rows {
		if r%2 == 1 {
			c.fill(image.Rect(pngMargin, c.y, pngMargin+inner, c.y+tableRowSize), stripeFill)
		}
		for i, cell := range row {
			if i >= len(t.Columns) {
				break
			}
			c.drawAt(pngMargin+i*col+4, c.y+4, truncate(asciiFold(cell), chars), inkColor, false)
		}
		c.y += tableRowSize
	}
}

func (c *canvas) text(x int, s string, ink color.Color, bold bool) {
	c.drawAt(x, c.y, asciiFold(s), ink, bold)
}

func (c *canvas) textRight(s string, ink color.Color) {
	s = asciiFold(s)
	c.drawAt(c.width-pngMargin-len(s)*glyphWidth, c.y, s, ink, false)
}

func (c *canvas) textCenter(s string, ink color.Color) {
	s = asciiFold(s)
	c.drawAt((c.width-len(s)*glyphWidth)/2, c.y, s, ink, false)
}

// drawAt writes s with its top-left corner at (x, top).
func (c *canvas) drawAt(x, top int, s string, ink color.Color, bold bool) {
	if c.dst == nil || s == "" {
		return
	}
	d := font.Drawer{
		Dst:  c.dst,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, top+glyphAscent),
	}
	d.DrawString(s)
	if bold {
		d.Dot = fixed.P(x+1, top+glyphAscent)
		d.DrawString(s)
	}
}

func (c *canvas) fill(r image.Rectangle, fill color.Color) {
	if c.dst == nil {
		return
	}
	draw.Draw(c.dst, r, image.NewUniform(fill), image.Point{}, draw.Src)
}
