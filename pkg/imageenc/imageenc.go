// Package imageenc normalizes arbitrary image bytes to PNG and encodes them
// as base64, the shape multimodal chat payloads expect. It is a leaf utility
// independent of the ask flow.
package imageenc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"
)

// EncodeBase64 decodes data in any registered format, re-encodes it as PNG,
// and returns the standard base64 payload.
func EncodeBase64(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
