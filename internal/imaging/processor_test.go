// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessUploadStoresOriginalAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	res, err := p.ProcessUpload(bytes.NewReader(testPNG(t, 800, 600)), 42)
	require.NoError(t, err)

	assert.Equal(t, "image/png", res.MimeType)
	assert.Equal(t, int64(800), res.Width)
	assert.Equal(t, int64(600), res.Height)
	assert.True(t, strings.HasPrefix(res.URL, "/uploads/hotels/42/"))

	_, err = os.Stat(filepath.Join(dir, res.Path))
	assert.NoError(t, err)

	// Thumbnail fits the bounding box.
	thumbRel := strings.TrimPrefix(res.ThumbURL, "/uploads/")
	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(thumbRel)))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, thumbWidth)
	assert.LessOrEqual(t, cfg.Height, thumbHeight)
}

func TestProcessUploadRejectsNonImage(t *testing.T) {
	p := NewProcessor(t.TempDir())
	_, err := p.ProcessUpload(strings.NewReader("%PDF-1.4 not an image"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image type")
}

func TestSaveGeneratedImage(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	url, err := p.SaveGeneratedImage(7, testPNG(t, 64, 64))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/generated/7/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	rel := strings.TrimPrefix(url, "/uploads/")
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	assert.NoError(t, err)
}

func TestSaveGeneratedImageRejectsGarbage(t *testing.T) {
	p := NewProcessor(t.TempDir())
	_, err := p.SaveGeneratedImage(7, []byte("not an image"))
	require.Error(t, err)
}
