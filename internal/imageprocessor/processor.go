// Package imageprocessor prepares uploaded photos for the move-in
// capsule: decode, downscale, stamp a timestamp watermark, re-encode
// as JPEG for the PDF builder.
package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// MaxPhotoWidth bounds capsule photos; anything wider is downscaled
const MaxPhotoWidth = 1600

// Processor handles capsule photo processing
type Processor struct {
	quality int // JPEG quality (1-100)
}

func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{quality: quality}
}

// ProcessPhoto decodes an uploaded photo, downscales it to MaxPhotoWidth,
// stamps the capture timestamp in the bottom-left corner and returns JPEG
// bytes. The watermark is the evidentiary part: the PDF page carries the
// moment the photo entered the capsule.
func (p *Processor) ProcessPhoto(r io.Reader, takenAt time.Time) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode photo: %w", err)
	}

	canvas := p.normalize(img)
	stampTimestamp(canvas, takenAt)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// normalize converts to RGBA and downscales wide images keeping ratio
func (p *Processor) normalize(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > MaxPhotoWidth {
		ratio := float64(height) / float64(width)
		width = MaxPhotoWidth
		height = int(float64(MaxPhotoWidth) * ratio)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// stampTimestamp draws "YYYY-MM-DD HH:MM" on a dark strip so the text
// stays readable on bright photos
func stampTimestamp(dst *image.RGBA, takenAt time.Time) {
	label := takenAt.Format("2006-01-02 15:04")
	face := basicfont.Face7x13

	textWidth := font.MeasureString(face, label).Ceil()
	pad := 6
	bounds := dst.Bounds()

	strip := image.Rect(
		bounds.Min.X+pad,
		bounds.Max.Y-face.Height-3*pad,
		bounds.Min.X+textWidth+3*pad,
		bounds.Max.Y-pad,
	)
	draw.Draw(dst, strip, &image.Uniform{color.RGBA{0, 0, 0, 180}}, image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot: fixed.P(
			strip.Min.X+pad,
			strip.Max.Y-pad,
		),
	}
	d.DrawString(label)
}

// IsValidImage reports whether the reader holds a decodable image
func IsValidImage(r io.Reader) bool {
	_, _, err := image.Decode(r)
	return err == nil
}
