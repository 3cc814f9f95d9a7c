package httpclient

import (
	"bytes"
	"strings"

	"github.com/andybalholm/brotli"
)

// compressible reports whether a request body with the given Content-Type
// is a candidate for compression. Only JSON payloads qualify; multipart
// bodies (file uploads) are never touched.
func compressible(contentType string) bool {
	ct := strings.ToLower(contentType)
	if strings.HasPrefix(ct, "multipart/") {
		return false
	}
	return strings.Contains(ct, "json")
}

// compressBrotli returns the Brotli encoding of body.
func compressBrotli(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// worthCompressing reports whether the compressed body beats the minimum
// gain threshold: its size must be at most maxRatio of the original.
func worthCompressing(originalLen, compressedLen int, maxRatio float64) bool {
	if originalLen == 0 {
		return false
	}
	return float64(compressedLen) <= maxRatio*float64(originalLen)
}
