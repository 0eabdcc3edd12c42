package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func pngFixture(t *testing.T, width, height int) *bytes.Reader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{200, 200, 200, 255})
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return bytes.NewReader(buf.Bytes())
}

func TestProcessPhoto_ProducesJPEG(t *testing.T) {
	p := NewProcessor(85)

	out, err := p.ProcessPhoto(pngFixture(t, 640, 480), time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC))
	assert.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
	assert.Equal(t, 640, decoded.Bounds().Dx())
	assert.Equal(t, 480, decoded.Bounds().Dy())
}

func TestProcessPhoto_DownscalesWideImages(t *testing.T) {
	p := NewProcessor(85)

	out, err := p.ProcessPhoto(pngFixture(t, 3200, 1600), time.Now())
	assert.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
	assert.Equal(t, MaxPhotoWidth, decoded.Bounds().Dx())
	assert.Equal(t, MaxPhotoWidth/2, decoded.Bounds().Dy())
}

func TestProcessPhoto_StampsWatermark(t *testing.T) {
	p := NewProcessor(85)

	out, err := p.ProcessPhoto(pngFixture(t, 320, 240), time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC))
	assert.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	assert.NoError(t, err)

	// нижний левый угол должен быть затемнён полосой под текст
	r, g, b, _ := decoded.At(10, decoded.Bounds().Max.Y-10).RGBA()
	assert.Less(t, r>>8, uint32(150))
	assert.Less(t, g>>8, uint32(150))
	assert.Less(t, b>>8, uint32(150))
}

func TestProcessPhoto_RejectsGarbage(t *testing.T) {
	p := NewProcessor(85)
	_, err := p.ProcessPhoto(bytes.NewReader([]byte("not an image")), time.Now())
	assert.Error(t, err)
}

func TestIsValidImage(t *testing.T) {
	assert.True(t, IsValidImage(pngFixture(t, 10, 10)))
	assert.False(t, IsValidImage(bytes.NewReader([]byte("junk"))))
}
