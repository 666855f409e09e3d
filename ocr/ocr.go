//go:build ocr

// Package ocr describes images with text recognized by Tesseract, for use
// as alt text on imported images without a description.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract. It implements docx.AltTextRecognizer.
type Client struct {
	client *gosseract.Client
	cfg    config
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New(opts ...Option) (*Client, error) {
	cfg := newConfig(opts)
	client := gosseract.NewClient()
	if len(cfg.languages) > 0 {
		if err := client.SetLanguage(cfg.languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("setting OCR languages: %w", err)
		}
	}
	return &Client{client: client, cfg: cfg}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.) and
// returns the text as a single line, truncated to the configured length.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return altText(text, c.cfg.maxLength), nil
}

// SetLanguage sets the language(s) for OCR recognition, e.g. "eng", "fra".
func (c *Client) SetLanguage(langs ...string) error {
	return c.client.SetLanguage(langs...)
}
