package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

var ErrUnsupportedType = errors.New("unsupported receipt type")

const (
	TypePDF  = "application/pdf"
	TypeJPEG = "image/jpeg"
	TypePNG  = "image/png"
	TypeWebP = "image/webp"

	webpQuality = 80
)

// Normalized is a receipt ready for upload.
type Normalized struct {
	Data        []byte
	ContentType string
	Ext         string
}

// NormalizeReceipt sniffs the payload type. PDFs pass through unchanged;
// JPEG and PNG images are downscaled to maxWidth (keeping aspect ratio) and
// re-encoded as WebP.
func NormalizeReceipt(data []byte, maxWidth int) (Normalized, error) {
	sniffed := http.DetectContentType(data)

	switch sniffed {
	case TypePDF:
		return Normalized{Data: data, ContentType: TypePDF, Ext: "pdf"}, nil
	case TypeJPEG, TypePNG:
	default:
		return Normalized{}, fmt.Errorf("%w: %s", ErrUnsupportedType, sniffed)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Normalized{}, fmt.Errorf("decode image: %w", err)
	}

	img := downscale(src, maxWidth)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return Normalized{}, fmt.Errorf("encode webp: %w", err)
	}

	return Normalized{Data: buf.Bytes(), ContentType: TypeWebP, Ext: "webp"}, nil
}

func downscale(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return src
	}

	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
