// Package extract converts uploaded timetable documents into plain text.
//
// Dispatch is by filename extension and mime type, in order: spreadsheet
// formats are rendered sheet by sheet, PDFs try embedded text first and fall
// back to OCR when the yield is below a threshold (scanned PDFs), and images
// go straight to OCR.
package extract

import (
	"context"
	"fmt"
	"strings"

	"classtrack/internal/apperror"
)

// DefaultPDFTextThreshold is the minimum number of embedded-text characters
// below which a PDF is treated as scanned and handed to OCR.
const DefaultPDFTextThreshold = 50

// OCR is the fallback recognizer for images and scanned PDFs.
type OCR interface {
	ParseDocument(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Extractor dispatches a raw upload to the right extraction strategy.
type Extractor struct {
	ocr              OCR
	pdfTextThreshold int

	// pdfText is swappable so tests can exercise the fallback policy
	// without crafting real PDFs.
	pdfText func(data []byte) (string, error)
}

// New creates an extractor. threshold <= 0 selects the default.
func New(ocr OCR, threshold int) *Extractor {
	if threshold <= 0 {
		threshold = DefaultPDFTextThreshold
	}
	return &Extractor{
		ocr:              ocr,
		pdfTextThreshold: threshold,
		pdfText:          pdfEmbeddedText,
	}
}

// Extract produces plain text from a raw upload. Types outside
// {xlsx, xls, csv, pdf, image/*} fail with UnsupportedType.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	name := strings.ToLower(filename)

	switch {
	case strings.HasSuffix(name, ".xlsx"):
		return fromXLSX(data)

	case strings.HasSuffix(name, ".xls"):
		return fromXLS(data)

	case strings.HasSuffix(name, ".csv"):
		return fromCSV(data)

	case strings.HasSuffix(name, ".pdf"):
		text, err := e.pdfText(data)
		if err != nil {
			return "", apperror.ExtractionFailed(err, "Failed to parse PDF content.")
		}
		if len(strings.TrimSpace(text)) < e.pdfTextThreshold {
			// Scanned PDF: hardly any embedded text, let OCR read the pages.
			return e.ocr.ParseDocument(ctx, data, "application/pdf")
		}
		return text, nil

	case strings.HasPrefix(mimeType, "image/"):
		return e.ocr.ParseDocument(ctx, data, mimeType)

	default:
		return "", apperror.UnsupportedType(
			fmt.Sprintf("Unsupported file type %q. Please upload PDF, XLSX, CSV, JPG, or PNG.", filename))
	}
}
