package engine

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
)

// readBody decompresses the response per Content-Encoding, converts it to
// UTF-8 per Content-Type (or the document's own meta/XML declaration) and
// enforces the size cap.
func readBody(resp *http.Response, maxBytes int64) (string, error) {
	reader := io.Reader(resp.Body)

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("gzip decode: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	}

	utf8Reader, err := charset.NewReader(reader, resp.Header.Get("Content-Type"))
	if err != nil {
		// Unknown charset label: keep the raw bytes.
		utf8Reader = reader
	}

	body, err := io.ReadAll(io.LimitReader(utf8Reader, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return "", fmt.Errorf("response body exceeds limit of %d bytes", maxBytes)
	}
	return string(body), nil
}
