package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// pdfEmbeddedText pulls the embedded text layer out of a PDF. Scanned PDFs
// typically yield next to nothing here; the caller decides whether to fall
// back to OCR.
func pdfEmbeddedText(data []byte) (text string, err error) {
	// The pdf library panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	tr, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(tr); err != nil {
		return "", err
	}
	return buf.String(), nil
}
