// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging turns uploaded avatar images into square PNG thumbnails.
// JPEG, PNG, GIF and WebP sources are accepted. Sources smaller than the
// target are not upscaled.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// AvatarSize is the edge length of generated avatars in pixels.
const AvatarSize = 512

// ProcessedImage holds one generated image ready for upload.
type ProcessedImage struct {
	Width       int
	Height      int
	Data        []byte
	ContentType string
}

// Avatar center-crops the source to a square and scales it down to at
// most size pixels per side, encoded as PNG.
func Avatar(original []byte, size int) (*ProcessedImage, error) {
	if size <= 0 {
		size = AvatarSize
	}

	src, format, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode failed: %w", err)
	}

	crop := squareCrop(src.Bounds())
	edge := crop.Dx()
	if edge > size {
		edge = size
	}

	dst := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("imaging: encode %s as png: %w", format, err)
	}

	return &ProcessedImage{
		Width:       edge,
		Height:      edge,
		Data:        buf.Bytes(),
		ContentType: "image/png",
	}, nil
}

// squareCrop returns the largest centered square inside b.
func squareCrop(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w > h {
		off := (w - h) / 2
		return image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+h, b.Max.Y)
	}
	off := (h - w) / 2
	return image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+w)
}
