// Package codec parses the image strings exchanged with clients.
//
// Two input forms are recognized: a data URI ("data:image/jpeg;base64,<payload>")
// and a bare base64 payload. Output is always a JPEG data URI.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Form tells which of the accepted input variants an image string used.
type Form int

const (
	// FormBare is a plain base64 payload without any prefix.
	FormBare Form = iota
	// FormDataURI is a "data:<mediatype>;base64,<payload>" string.
	FormDataURI
)

func (f Form) String() string {
	switch f {
	case FormBare:
		return "bare"
	case FormDataURI:
		return "data-uri"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

const (
	dataURIScheme = "data:"
	base64Marker  = ";base64"
	// JPEGPrefix is prepended to every image returned to clients.
	JPEGPrefix = "data:image/jpeg;base64,"
)

var (
	ErrEmptyPayload = errors.New("empty image payload")
	ErrNotBase64URI = errors.New("data URI is not base64-encoded")
	ErrMissingComma = errors.New("data URI has no payload separator")
)

// Payload is a parsed image string.
type Payload struct {
	Form      Form
	MediaType string // empty for FormBare
	Data      []byte
}

// ParseImage recognizes the form of s and decodes its base64 payload.
func ParseImage(s string) (Payload, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Payload{}, ErrEmptyPayload
	}

	if !hasPrefixFold(s, dataURIScheme) {
		data, err := decodeBase64(s)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Form: FormBare, Data: data}, nil
	}

	header, encoded, found := strings.Cut(s[len(dataURIScheme):], ",")
	if !found {
		return Payload{}, ErrMissingComma
	}
	if !hasSuffixFold(header, base64Marker) {
		return Payload{}, ErrNotBase64URI
	}
	mediaType := header[:len(header)-len(base64Marker)]

	data, err := decodeBase64(encoded)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Form: FormDataURI, MediaType: mediaType, Data: data}, nil
}

// EncodeJPEG wraps JPEG bytes into a data URI.
func EncodeJPEG(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(JPEGPrefix) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString(JPEGPrefix)
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String()
}

// The scheme and ";base64" are matched case-insensitively (RFC 2397).
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

func decodeBase64(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, ErrEmptyPayload
	}

	enc := base64.StdEncoding
	if len(encoded)%4 != 0 && !strings.HasSuffix(encoded, "=") {
		enc = base64.RawStdEncoding
	}

	data, err := enc.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	return data, nil
}
