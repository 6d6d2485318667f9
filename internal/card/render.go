// internal/card/render.go
//
// Text-as-image cards for answered questions.
//
// Context
// -------
// The social poster attaches a JPEG of the question so the post reads well
// without a click-through.  Layout:
//
//	┌──────────────────────────── 600 px ───┐
//	│ accent bar                            │
//	│ wrapped question text, 22.5 px leading│  50 px top margin
//	│ …                                     │
//	│ footer band with brand text           │  90 px bottom area
//	└───────────────────────────────────────┘
//
// Height is 50 + lines*22.5 + 90.  Text is drawn with x/image/font; the
// canvas, bar, and JPEG encode use disintegration/imaging.
//
// Fonts
// -----
// Go Regular is embedded and covers Latin text.  Deployments with CJK
// questions set card.font_path to a TTF/OTF that has the glyphs.
package card

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	Width       = 600
	topMargin   = 50.0
	lineHeight  = 22.5
	bottomArea  = 90.0
	sideMargin  = 40
	barHeight   = 8
	footerBand  = 40
	fontSize    = 16
	jpegQuality = 90
)

var (
	Accent    = color.NRGBA{R: 0x2c, G: 0x36, B: 0x5d, A: 0xff}
	textColor = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
)

// Renderer draws cards.  The parsed font is shared; faces are created per
// render because font.Face is not safe for concurrent use.
type Renderer struct {
	font  *opentype.Font
	brand string
}

// NewRenderer loads the font at path, or Go Regular when path is empty.
func NewRenderer(path, brand string) (*Renderer, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("card: font: %w", err)
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("card: parse font: %w", err)
	}
	return &Renderer{font: f, brand: brand}, nil
}

// Height returns the canvas height for n wrapped lines.
func Height(n int) int {
	return int(topMargin + float64(n)*lineHeight + bottomArea)
}

// Image lays out text and returns the canvas.
func (r *Renderer) Image(text string) (image.Image, error) {
	lines := Wrap(text, Columns)
	h := Height(len(lines))

	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("card: face: %w", err)
	}
	defer face.Close()

	canvas := imaging.New(Width, h, color.White)
	canvas = imaging.Paste(canvas, imaging.New(Width, barHeight, Accent), image.Pt(0, 0))
	canvas = imaging.Paste(canvas, imaging.New(Width, footerBand, Accent), image.Pt(0, h-footerBand))

	d := &font.Drawer{Dst: canvas, Src: image.NewUniform(textColor), Face: face}
	for i, line := range lines {
		y := topMargin + float64(i)*lineHeight
		d.Dot = fixed.Point26_6{X: fixed.I(sideMargin), Y: fixed.Int26_6(y * 64)}
		d.DrawString(line)
	}

	if r.brand != "" {
		d.Src = image.NewUniform(color.White)
		adv := d.MeasureString(r.brand)
		d.Dot = fixed.Point26_6{
			X: fixed.I(Width-sideMargin) - adv,
			Y: fixed.I(h - footerBand/2 + fontSize/3),
		}
		d.DrawString(r.brand)
	}
	return canvas, nil
}

// JPEG renders text and encodes it.
func (r *Renderer) JPEG(text string) ([]byte, error) {
	img, err := r.Image(text)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("card: encode: %w", err)
	}
	return buf.Bytes(), nil
}
