package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when the content string is empty or only whitespace.
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrGenerationFailed is returned when QR code encoding fails.
	ErrGenerationFailed = errors.New("failed to generate QR code")
)

// defaultSize is the image size in pixels used when no size is specified.
// 256px renders comfortably scannable on both mobile and desktop screens.
const defaultSize = 256

// PNG encodes the content as a QR code PNG image. Medium error correction is
// sufficient for on-screen scanning of provisioning URIs.
func PNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerationFailed, err)
	}
	return png, nil
}

// DataURI encodes the content as a QR code and returns it as a data: URI
// suitable for direct embedding in an <img> tag during enrollment.
func DataURI(content string, size int) (string, error) {
	png, err := PNG(content, size)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png)), nil
}
