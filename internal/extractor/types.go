package extractor

import "context"

// Kind distinguishes body text from image-derived chunks.
type Kind string

const (
	// KindText marks a chunk extracted from a page's text content.
	KindText Kind = "text"
	// KindImageDescription marks a chunk generated by describing an embedded image.
	KindImageDescription Kind = "image"
)

// Chunk is the unit of indexable content produced by extraction.
// Text is always non-blank after trimming; blank windows are discarded
// before a Chunk is created.
type Chunk struct {
	Text       string
	Page       int    // 1-based source page
	Kind       Kind
	Dimensions string // "WxH", image chunks only
}

// PageText is one page's worth of extracted text.
type PageText struct {
	Page int
	Text string
}

// PageImage is one raster image extracted from a document page.
type PageImage struct {
	Page   int
	Data   []byte
	Width  int
	Height int
}

// TextDecoder extracts per-page text from raw document bytes.
type TextDecoder interface {
	DecodeText(ctx context.Context, doc []byte) ([]PageText, error)
}

// ImageDecoder extracts embedded raster images from raw document bytes.
type ImageDecoder interface {
	DecodeImages(ctx context.Context, doc []byte) ([]PageImage, error)
}

// Describer turns an image into a text description using a vision-capable model.
type Describer interface {
	Describe(ctx context.Context, image []byte, instruction string) (string, error)
}
