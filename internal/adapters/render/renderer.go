package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"typeevent/internal/domain"
)

// Text layout on the certificate template. Strings are centered horizontally;
// the vertical positions and sizes are fixed pixel values tuned to the
// template artwork.
const (
	nameFontSize   = 60.0
	detailFontSize = 30.0
	nameY          = 445.0
	eventNameY     = 480.0
	hoursY         = 530.0
)

type imageRenderer struct {
	templatePath string
	fontPath     string

	once     sync.Once
	template image.Image
	font     *truetype.Font
	loadErr  error
}

// NewImageRenderer returns a CertificateRenderer that composites text onto the
// PNG template at templatePath using the TTF font at fontPath. The assets are
// loaded on first use; a missing or corrupt asset surfaces
// domain.ErrAssetUnavailable from Render.
func NewImageRenderer(templatePath, fontPath string) domain.CertificateRenderer {
	return &imageRenderer{templatePath: templatePath, fontPath: fontPath}
}

func (r *imageRenderer) loadAssets() {
	tpl, err := gg.LoadImage(r.templatePath)
	if err != nil {
		r.loadErr = fmt.Errorf("%w: load template %s: %v", domain.ErrAssetUnavailable, r.templatePath, err)
		return
	}
	raw, err := os.ReadFile(r.fontPath)
	if err != nil {
		r.loadErr = fmt.Errorf("%w: load font %s: %v", domain.ErrAssetUnavailable, r.fontPath, err)
		return
	}
	f, err := truetype.Parse(raw)
	if err != nil {
		r.loadErr = fmt.Errorf("%w: parse font %s: %v", domain.ErrAssetUnavailable, r.fontPath, err)
		return
	}
	r.template = tpl
	r.font = f
}

func (r *imageRenderer) Render(participantName, eventName string, trainingHours int) ([]byte, error) {
	r.once.Do(r.loadAssets)
	if r.loadErr != nil {
		return nil, r.loadErr
	}

	dc := gg.NewContextForImage(r.template)
	centerX := float64(dc.Width()) / 2
	dc.SetRGB(0, 0, 0)

	dc.SetFontFace(truetype.NewFace(r.font, &truetype.Options{Size: nameFontSize}))
	dc.DrawStringAnchored(participantName, centerX, nameY, 0.5, 0.5)

	dc.SetFontFace(truetype.NewFace(r.font, &truetype.Options{Size: detailFontSize}))
	dc.DrawStringAnchored(eventName, centerX, eventNameY, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%d horas", trainingHours), centerX, hoursY, 0.5, 0.5)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode certificate png: %w", err)
	}
	return buf.Bytes(), nil
}
