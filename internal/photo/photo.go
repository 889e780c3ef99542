// Package photo reads the user's picture from disk for analysis.
package photo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes caps the size of an uploaded photo.
const DefaultMaxBytes int64 = 10 << 20

var (
	ErrUnsupportedFormat = errors.New("unsupported image format, use jpg or png")
	ErrTooLarge          = errors.New("image is too large")
	ErrEmpty             = errors.New("image is empty")
)

var allowedTypes = []string{"image/jpeg", "image/png"}

// Image is a photo ready to be sent to the analyzer.
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Load reads the image at path. The MIME type is detected from the content, not the extension.
// maxBytes <= 0 means DefaultMaxBytes.
func Load(path string, maxBytes int64) (*Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}

	return FromBytes(filepath.Base(path), data, maxBytes)
}

// FromBytes validates data as a jpg or png image.
func FromBytes(name string, data []byte, maxBytes int64) (*Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	switch {
	case len(data) == 0:
		return nil, ErrEmpty
	case int64(len(data)) > maxBytes:
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedFormat, mtype.String())
	}

	return &Image{
		Name:     name,
		MIMEType: mtype.String(),
		Data:     data,
	}, nil
}
