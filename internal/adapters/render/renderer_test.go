package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"typeevent/internal/domain"
)

// writeTestAssets creates a plain white template PNG and a real TTF font in a
// temp dir and returns their paths.
func writeTestAssets(t *testing.T, width, height int) (templatePath, fontPath string) {
	t.Helper()
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	templatePath = filepath.Join(dir, "template.png")
	require.NoError(t, os.WriteFile(templatePath, buf.Bytes(), 0o644))

	fontPath = filepath.Join(dir, "font.ttf")
	require.NoError(t, os.WriteFile(fontPath, goregular.TTF, 0o644))
	return templatePath, fontPath
}

func TestImageRenderer_Render(t *testing.T) {
	templatePath, fontPath := writeTestAssets(t, 800, 600)
	r := NewImageRenderer(templatePath, fontPath)

	out, err := r.Render("Alice Souza", "Semana de Go", 8)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	bounds := decoded.Bounds()
	assert.Equal(t, 800, bounds.Dx())
	assert.Equal(t, 600, bounds.Dy())

	// The drawn text must have darkened some pixels of the white template.
	dark := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, _ := decoded.At(x, y).RGBA()
			if cr < 0x8000 && cg < 0x8000 && cb < 0x8000 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 0, "rendered text should produce dark pixels")
}

func TestImageRenderer_Render_does_not_mutate_template(t *testing.T) {
	templatePath, fontPath := writeTestAssets(t, 800, 600)
	r := NewImageRenderer(templatePath, fontPath)

	first, err := r.Render("Alice", "Evento", 8)
	require.NoError(t, err)
	second, err := r.Render("Alice", "Evento", 8)
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated renders of the same input should be identical")
}

func TestImageRenderer_missing_template(t *testing.T) {
	_, fontPath := writeTestAssets(t, 10, 10)
	r := NewImageRenderer(filepath.Join(t.TempDir(), "missing.png"), fontPath)

	_, err := r.Render("Alice", "Evento", 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAssetUnavailable)
}

func TestImageRenderer_missing_font(t *testing.T) {
	templatePath, _ := writeTestAssets(t, 10, 10)
	r := NewImageRenderer(templatePath, filepath.Join(t.TempDir(), "missing.ttf"))

	_, err := r.Render("Alice", "Evento", 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAssetUnavailable)
}

func TestImageRenderer_corrupt_font(t *testing.T) {
	templatePath, _ := writeTestAssets(t, 10, 10)
	badFont := filepath.Join(t.TempDir(), "bad.ttf")
	require.NoError(t, os.WriteFile(badFont, []byte("not a font"), 0o644))
	r := NewImageRenderer(templatePath, badFont)

	_, err := r.Render("Alice", "Evento", 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAssetUnavailable)
}
