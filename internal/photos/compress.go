package photos

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"strings"

	"github.com/disintegration/imaging"
)

// Camera captures get resized and recompressed before storage so a record
// full of photos stays loadable over mobile links.
const (
	maxEdge = 800

	initialQuality = 60
	mediumQuality  = 50
	lowQuality     = 40

	mediumThreshold = 200 * 1000
	lowThreshold    = 300 * 1000
)

// Compress scales img down to fit within 800x800 (never upscaling) and encodes
// it as JPEG, stepping quality down while the output stays oversized.
func Compress(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() > maxEdge || bounds.Dy() > maxEdge {
		img = imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
	}

	out, err := encodeJPEG(img, initialQuality)
	if err != nil {
		return nil, err
	}
	if len(out) > mediumThreshold {
		out, err = encodeJPEG(img, mediumQuality)
		if err != nil {
			return nil, err
		}
	}
	if len(out) > lowThreshold {
		out, err = encodeJPEG(img, lowQuality)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURL wraps compressed JPEG bytes as a data: URL, the storage form the
// photo rows carry.
func DataURL(jpegBytes []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes)
}

// DecodeDataURL parses a data: URL back into an image. Non-data URLs and
// undecodable payloads return an error.
func DecodeDataURL(url string) (image.Image, error) {
	const prefix = "data:image/jpeg;base64,"
	payload := url
	if len(url) > len(prefix) && strings.HasPrefix(url, "data:") {
		if i := strings.IndexByte(url, ','); i >= 0 {
			payload = url[i+1:]
		}
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		img2, _, err2 := image.Decode(bytes.NewReader(raw))
		if err2 != nil {
			return nil, err
		}
		img = img2
	}
	return img, nil
}
