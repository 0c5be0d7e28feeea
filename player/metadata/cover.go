package metadata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

const (
	// maxCoverDimension bounds the longer side of stored cover art.
	maxCoverDimension = 500

	coverJPEGQuality = 80
)

// ErrCoverDecode is returned when cover image bytes cannot be decoded.
var ErrCoverDecode = errors.New("metadata: cover image decode failed")

// NormalizeCover scales an image so its longer dimension is at most 500px
// (never upscaling) and re-encodes it as a JPEG data URL.
func (e *Extractor) NormalizeCover(data []byte) (string, error) {
	img, err := decodeJPEGOrPNG(data)
	if err != nil {
		return "", err
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	if width > maxCoverDimension || height > maxCoverDimension {
		if width >= height {
			img = resize.Resize(maxCoverDimension, 0, img, resize.Lanczos3)
		} else {
			img = resize.Resize(0, maxCoverDimension, img, resize.Lanczos3)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: coverJPEGQuality}); err != nil {
		return "", fmt.Errorf("metadata: cover image encode failed: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeJPEGOrPNG(data []byte) (image.Image, error) {
	img, jpegErr := jpeg.Decode(bytes.NewReader(data))
	if jpegErr == nil {
		return img, nil
	}

	img, pngErr := png.Decode(bytes.NewReader(data))
	if pngErr == nil {
		return img, nil
	}

	return nil, ErrCoverDecode
}
