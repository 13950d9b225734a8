package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docbrain/internal/contextutil"
)

// ErrNoContent is returned when a document yields no indexable chunks at all.
// Per-page and per-image failures only lower yield; a document that produces
// nothing must be reported to the caller rather than silently indexed as empty.
var ErrNoContent = errors.New("no extractable content")

// visionInstruction is the fixed prompt for describing embedded images.
// It is tuned to elicit the details that make troubleshooting screenshots
// searchable: UI state, error codes, and any visible text.
const visionInstruction = `Describe this troubleshooting image in detail. Include:
- What type of screen, dialog, or interface is shown
- Any error messages, error codes, or status indicators visible
- UI elements like buttons, icons, menus, or indicators
- What problem or solution is being illustrated
- Any text visible in the image
Keep the description concise but include all technical details that would help someone understand this troubleshooting step.`

// imagePlaceholder is emitted when the vision model fails, so the image
// reference stays searchable even without a description.
const imagePlaceholder = "[IMAGE] Screenshot (description unavailable)"

// Extractor turns raw document bytes into an ordered sequence of typed chunks.
// Two independent passes run over the same document: fixed-size text windows
// per page, then descriptions of embedded images. Their concatenation is
// stable (text first, then images) so downstream ids are deterministic.
type Extractor struct {
	textDecoder  TextDecoder
	imageDecoder ImageDecoder
	describer    Describer
	chunkSize    int
	minImageSize int
}

// New creates a new Extractor.
// chunkSize is the text window length in runes; minImageSize is the minimum
// width and height an embedded image must have to be described (filters
// icons and logos).
func New(textDecoder TextDecoder, imageDecoder ImageDecoder, describer Describer, chunkSize, minImageSize int) *Extractor {
	return &Extractor{
		textDecoder:  textDecoder,
		imageDecoder: imageDecoder,
		describer:    describer,
		chunkSize:    chunkSize,
		minImageSize: minImageSize,
	}
}

// Extract runs both extraction passes over the document and returns the
// combined chunk sequence. Returns ErrNoContent if both passes come up empty.
func (e *Extractor) Extract(ctx context.Context, doc []byte) ([]Chunk, error) {
	textChunks := e.extractText(ctx, doc)
	imageChunks := e.extractImages(ctx, doc)

	all := append(textChunks, imageChunks...)
	if len(all) == 0 {
		return nil, ErrNoContent
	}
	return all, nil
}

// extractText decodes per-page text and splits each page into fixed-size
// rune windows with no overlap. Whitespace-only windows are dropped; a page
// that fails to decode is logged by the decoder and simply missing here.
func (e *Extractor) extractText(ctx context.Context, doc []byte) []Chunk {
	logger := contextutil.LoggerFromContext(ctx)

	pages, err := e.textDecoder.DecodeText(ctx, doc)
	if err != nil {
		// A failed text pass is non-fatal; the image pass may still yield chunks.
		logger.WarnContext(ctx, "text extraction failed", "error", err)
		return nil
	}

	var chunks []Chunk
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		for _, window := range SplitWindows(page.Text, e.chunkSize) {
			trimmed := strings.TrimSpace(window)
			if trimmed == "" {
				continue
			}
			chunks = append(chunks, Chunk{
				Text: trimmed,
				Page: page.Page,
				Kind: KindText,
			})
		}
	}
	return chunks
}

// extractImages enumerates embedded raster images, filters out small ones,
// and describes the rest with the vision model. A failed description yields
// the placeholder chunk instead of dropping the image.
func (e *Extractor) extractImages(ctx context.Context, doc []byte) []Chunk {
	logger := contextutil.LoggerFromContext(ctx)

	images, err := e.imageDecoder.DecodeImages(ctx, doc)
	if err != nil {
		logger.WarnContext(ctx, "image extraction failed", "error", err)
		return nil
	}

	var chunks []Chunk
	for _, img := range images {
		if img.Width < e.minImageSize || img.Height < e.minImageSize {
			continue
		}

		text := imagePlaceholder
		description, err := e.describer.Describe(ctx, img.Data, visionInstruction)
		if err != nil {
			logger.WarnContext(ctx, "image description failed, using placeholder", "page", img.Page, "error", err)
		} else if strings.TrimSpace(description) != "" {
			text = "[IMAGE DESCRIPTION] " + strings.TrimSpace(description)
		}

		chunks = append(chunks, Chunk{
			Text:       text,
			Page:       img.Page,
			Kind:       KindImageDescription,
			Dimensions: fmt.Sprintf("%dx%d", img.Width, img.Height),
		})
	}
	return chunks
}

// SplitWindows splits text into consecutive windows of at most size runes
// with no overlap. Splitting a text of length L yields ceil(L/size) windows
// whose concatenation reconstructs the original text.
func SplitWindows(text string, size int) []string {
	if size <= 0 || text == "" {
		return nil
	}

	runes := []rune(text)
	windows := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		windows = append(windows, string(runes[start:end]))
	}
	return windows
}
