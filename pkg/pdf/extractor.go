// Package pdf turns uploaded PDF bytes into per-page text.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	textpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	ErrEmptyPDF = errors.New("PDF file appears to be empty")
	ErrNoText   = errors.New("No text content found in the PDF")
)

// Page is the extracted text of one page. Number is 1-based.
type Page struct {
	Number     int
	TotalPages int
	Text       string
}

// Extract reads a PDF from memory and returns the pages that carry text.
// Pages without text are skipped but still count towards TotalPages.
//
// pdfcpu validates the file and counts pages; the text layer is read with
// ledongthuc/pdf, which maps glyphs through the fonts' ToUnicode CMaps.
func Extract(data []byte) ([]Page, error) {
	total, err := pageCount(data)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrEmptyPDF
	}

	r, err := textpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if n := r.NumPage(); n < total {
		total = n
	}

	pages := make([]Page, 0, total)
	for nr := 1; nr <= total; nr++ {
		p := r.Page(nr)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", nr, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, Page{Number: nr, TotalPages: total, Text: text})
	}

	if len(pages) == 0 {
		return nil, ErrNoText
	}
	return pages, nil
}

func pageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return ctx.PageCount, nil
}
