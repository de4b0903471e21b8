package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

var ErrImageDecode = errors.New("image could not be processed")

type EmbeddedImage struct {
	DataURI string `json:"image"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// ImageEmbedder turns an uploaded picture into a self-contained JPEG data URI so
// a dish record needs no external file storage.
type ImageEmbedder struct {
	DefaultWidth int
	MinWidth     int
	MaxWidth     int
	Quality      int
}

func NewImageEmbedder(defaultWidth, minWidth, maxWidth int) *ImageEmbedder {
	return &ImageEmbedder{
		DefaultWidth: defaultWidth,
		MinWidth:     minWidth,
		MaxWidth:     maxWidth,
		Quality:      85,
	}
}

// ClampWidth maps a requested width into [MinWidth, MaxWidth]; zero or negative
// selects DefaultWidth.
func (e *ImageEmbedder) ClampWidth(width int) int {
	if width <= 0 {
		width = e.DefaultWidth
	}
	if width < e.MinWidth {
		return e.MinWidth
	}
	if width > e.MaxWidth {
		return e.MaxWidth
	}
	return width
}

func (e *ImageEmbedder) Embed(r io.Reader, width int) (*EmbeddedImage, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	resized := imaging.Resize(img, e.ClampWidth(width), 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(e.Quality)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	bounds := resized.Bounds()
	return &EmbeddedImage{
		DataURI: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
	}, nil
}
