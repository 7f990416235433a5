package pdfextract

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Text is the extracted plain text of a bill PDF. FirstPage carries the text
// of page one separately because that is where the filing stamp, subtitle and
// sponsor lines live.
type Text struct {
	Full      string
	FirstPage string
}

// Extract reads the entire content of r and pulls plain text out of the PDF,
// page by page. Pages with no extractable text contribute nothing; a PDF with
// no text at all yields an empty Text and no error.
func Extract(r io.Reader) (Text, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Text{}, err
	}
	if len(b) == 0 {
		return Text{}, nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return Text{}, err
	}

	var full strings.Builder
	var firstPage string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i == 1 {
			firstPage = content
		}
		full.WriteString(content)
		full.WriteString("\n")
	}

	return Text{Full: full.String(), FirstPage: firstPage}, nil
}
