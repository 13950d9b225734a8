// Package pdfio provides thin decoders from raw PDF bytes to the extraction
// boundary types. Per-page failures produce partial results, never errors.
package pdfio

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"docbrain/internal/contextutil"
	"docbrain/internal/extractor"
)

// TextDecoder extracts per-page plain text from PDF bytes.
type TextDecoder struct{}

// NewTextDecoder creates a new TextDecoder.
func NewTextDecoder() *TextDecoder {
	return &TextDecoder{}
}

// DecodeText returns the text of every page that decodes cleanly, in page
// order. A page that fails to decode is logged and skipped.
func (d *TextDecoder) DecodeText(ctx context.Context, doc []byte) ([]extractor.PageText, error) {
	logger := contextutil.LoggerFromContext(ctx)

	reader, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []extractor.PageText
	for i := 1; i <= reader.NumPage(); i++ {
		text, err := pageText(reader, i)
		if err != nil {
			logger.WarnContext(ctx, "failed to extract page text", "page", i, "error", err)
			continue
		}
		if text == "" {
			continue
		}
		pages = append(pages, extractor.PageText{Page: i, Text: text})
	}
	return pages, nil
}

// pageText extracts one page's text. The pdf library panics on some
// malformed content streams, so the panic is converted to an error here and
// the page is skipped.
func pageText(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d decode panic: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
