package document

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/foundationpro/inspection-billing/internal/application/port"
)

// DefaultMaxOCRPages caps how many pages of a scanned PDF are sent for transcription
const DefaultMaxOCRPages = 5

// Reader implements port.DocumentReader. PDFs are read through their text
// layer. Pages without text and standalone images go to the transcriber
// when one is configured.
type Reader struct {
	transcriber port.PageTranscriber
	maxOCRPages int
	logger      *zap.Logger
}

// NewReader creates a document reader. transcriber may be nil.
func NewReader(transcriber port.PageTranscriber, maxOCRPages int, logger *zap.Logger) *Reader {
	if maxOCRPages <= 0 {
		maxOCRPages = DefaultMaxOCRPages
	}
	return &Reader{
		transcriber: transcriber,
		maxOCRPages: maxOCRPages,
		logger:      logger,
	}
}

// ExtractText returns the document's text. The file type is taken from the
// filename extension.
func (r *Reader) ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("document %q is empty", filename)
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		return r.readPDF(ctx, filename, data)
	case ".txt", ".text", ".md", ".csv":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("document %q is not valid UTF-8", filename)
		}
		return string(data), nil
	case ".jpg", ".jpeg", ".png":
		return r.readImage(ctx, filename, data)
	default:
		return "", fmt.Errorf("%w: %q", port.ErrUnsupportedDocument, ext)
	}
}

func (r *Reader) readPDF(ctx context.Context, filename string, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	r.logger.Debug("Processing PDF",
		zap.String("filename", filename),
		zap.Int("total_pages", pageCount))

	var pages []string
	ocrPages := 0
	for n := 0; n < pageCount; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := doc.Text(n)
		if err != nil {
			r.logger.Warn("Failed to extract page text", zap.Int("page", n), zap.Error(err))
		}
		text = strings.TrimSpace(text)

		if text == "" && r.transcriber != nil && ocrPages < r.maxOCRPages {
			ocrPages++
			text, err = r.transcribePDFPage(ctx, doc, n)
			if err != nil {
				r.logger.Warn("Failed to transcribe page", zap.Int("page", n), zap.Error(err))
				continue
			}
		}

		if text != "" {
			pages = append(pages, text)
		}
	}

	r.logger.Info("PDF text extracted",
		zap.String("filename", filename),
		zap.Int("pages", pageCount),
		zap.Int("ocr_pages", ocrPages))

	return strings.Join(pages, "\n\n"), nil
}

func (r *Reader) transcribePDFPage(ctx context.Context, doc *fitz.Document, n int) (string, error) {
	img, err := doc.Image(n)
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}

	jpg, err := encodeJPEG(img)
	if err != nil {
		return "", err
	}

	text, err := r.transcriber.TranscribePage(ctx, jpg)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (r *Reader) readImage(ctx context.Context, filename string, data []byte) (string, error) {
	if r.transcriber == nil {
		return "", fmt.Errorf("%w: image %q needs a transcriber", port.ErrUnsupportedDocument, filename)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	jpg, err := encodeJPEG(img)
	if err != nil {
		return "", err
	}

	text, err := r.transcriber.TranscribePage(ctx, jpg)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe %q: %w", filename, err)
	}
	return strings.TrimSpace(text), nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// Verify interface compliance
var _ port.DocumentReader = (*Reader)(nil)
