package pdfio

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"docbrain/internal/contextutil"
	"docbrain/internal/extractor"
)

// ImageDecoder extracts embedded raster images from PDF bytes.
type ImageDecoder struct {
	conf *model.Configuration
}

// NewImageDecoder creates a new ImageDecoder.
func NewImageDecoder() *ImageDecoder {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &ImageDecoder{conf: conf}
}

// DecodeImages returns every decodable embedded image with its page number
// and pixel dimensions, ordered by page then by object number so repeated
// runs over the same document enumerate images identically. Images whose
// dimensions cannot be determined are logged and skipped.
func (d *ImageDecoder) DecodeImages(ctx context.Context, doc []byte) ([]extractor.PageImage, error) {
	logger := contextutil.LoggerFromContext(ctx)

	pageImages, err := api.ExtractImagesRaw(bytes.NewReader(doc), nil, d.conf)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	var images []extractor.PageImage
	for _, byObj := range pageImages {
		objNrs := make([]int, 0, len(byObj))
		for objNr := range byObj {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			img := byObj[objNr]

			data, err := io.ReadAll(img)
			if err != nil {
				logger.WarnContext(ctx, "failed to read embedded image", "page", img.PageNr, "object", objNr, "error", err)
				continue
			}

			cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				logger.WarnContext(ctx, "failed to decode embedded image", "page", img.PageNr, "object", objNr, "error", err)
				continue
			}

			images = append(images, extractor.PageImage{
				Page:   img.PageNr,
				Data:   data,
				Width:  cfg.Width,
				Height: cfg.Height,
			})
		}
	}

	sort.SliceStable(images, func(i, j int) bool {
		return images[i].Page < images[j].Page
	})
	return images, nil
}
