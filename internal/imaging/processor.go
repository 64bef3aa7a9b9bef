// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging stores uploaded and AI-generated images: format sniffing,
// EXIF orientation correction and thumbnail variants.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/rwcarlsen/goexif/exif"
)

// thumbnail bounding box
const (
	thumbWidth  = 400
	thumbHeight = 300
)

// ProcessResult describes a stored upload.
type ProcessResult struct {
	Path     string // original, relative to the uploads dir
	ThumbURL string
	URL      string
	MimeType string
	Size     int64
	Width    int64
	Height   int64
}

// Processor writes image files under a base uploads directory and exposes
// them under the /uploads URL prefix.
type Processor struct {
	uploadsDir string
}

// NewProcessor creates a processor rooted at uploadsDir.
func NewProcessor(uploadsDir string) *Processor {
	return &Processor{uploadsDir: uploadsDir}
}

// ProcessUpload validates, normalizes and stores an uploaded image for a
// hotel, producing the original plus a thumbnail variant.
func (p *Processor) ProcessUpload(r io.Reader, hotelID int64) (*ProcessResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("sniffing upload type: %w", err)
	}
	var format imaging.Format
	switch kind.MIME.Value {
	case "image/jpeg":
		format = imaging.JPEG
	case "image/png":
		format = imaging.PNG
	case "image/gif":
		format = imaging.GIF
	default:
		return nil, fmt.Errorf("unsupported image type %q", kind.MIME.Value)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	name := uuid.NewString() + "." + kind.Extension
	rel := filepath.Join("hotels", fmt.Sprintf("%d", hotelID), name)

	encoded, err := encode(img, format)
	if err != nil {
		return nil, err
	}
	if err := p.writeFile(rel, encoded); err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, thumbWidth, thumbHeight, imaging.Lanczos)
	thumbRel := filepath.Join("hotels", fmt.Sprintf("%d", hotelID), "thumb-"+name)
	encodedThumb, err := encode(thumb, format)
	if err != nil {
		return nil, err
	}
	if err := p.writeFile(thumbRel, encodedThumb); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &ProcessResult{
		Path:     rel,
		URL:      "/uploads/" + filepath.ToSlash(rel),
		ThumbURL: "/uploads/" + filepath.ToSlash(thumbRel),
		MimeType: kind.MIME.Value,
		Size:     int64(len(encoded)),
		Width:    int64(bounds.Dx()),
		Height:   int64(bounds.Dy()),
	}, nil
}

// SaveGeneratedImage stores AI-generated PNG bytes for a hotel and returns
// the public URL. Satisfies the automation sweep's image store.
func (p *Processor) SaveGeneratedImage(hotelID int64, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding generated image: %w", err)
	}

	rel := filepath.Join("generated", fmt.Sprintf("%d", hotelID), uuid.NewString()+".png")
	encoded, err := encode(img, imaging.PNG)
	if err != nil {
		return "", err
	}
	if err := p.writeFile(rel, encoded); err != nil {
		return "", err
	}
	return "/uploads/" + filepath.ToSlash(rel), nil
}

// Delete removes a stored file by its uploads-relative path.
func (p *Processor) Delete(rel string) error {
	if err := os.Remove(filepath.Join(p.uploadsDir, rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s: %w", rel, err)
	}
	return nil
}

func (p *Processor) writeFile(rel string, data []byte) error {
	path := filepath.Join(p.uploadsDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating upload dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

func encode(img image.Image, format imaging.Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if format == imaging.JPEG {
		err = imaging.Encode(&buf, img, format, imaging.JPEGQuality(90))
	} else {
		err = imaging.Encode(&buf, img, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

// readExifOrientation returns the EXIF orientation tag, or 1 (normal) when
// it cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
