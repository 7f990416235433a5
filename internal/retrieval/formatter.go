package retrieval

import (
	"fmt"
	"strings"
)

const spanSeparator = "\n---\n"

// Formatter renders retrieved spans into the hierarchical textual context the
// prompt carries. Pure formatting: missing optional fields are omitted, never
// rendered as placeholders.
type Formatter struct {
	host    string
	session string
}

func NewFormatter(host, session string) *Formatter {
	if host == "" {
		host = "arkleg.state.ar.us"
	}
	if session == "" {
		session = "2025R"
	}
	return &Formatter{host: host, session: session}
}

// BillURL builds the public document URL for a bill id. The path templating
// must stay byte-for-byte compatible with the legislature's FTP document
// endpoint or the links break.
func (f *Formatter) BillURL(sourceFile string) string {
	return fmt.Sprintf("https://%s/Home/FTPDocument?path=%%2FBills%%2F%s%%2FPublic%%2F%s.pdf",
		f.host, f.session, sourceFile)
}

// Reference renders a markdown link label for a bill.
func (f *Formatter) Reference(sourceFile string) string {
	return fmt.Sprintf("[%s](%s)", sourceFile, f.BillURL(sourceFile))
}

// RenderSpan produces one document's block: header, optional summary /
// subtitle / metadata lines, then a blank line and the chunk bodies.
func (f *Formatter) RenderSpan(span Span) string {
	var b strings.Builder
	b.WriteString("From ")
	b.WriteString(f.Reference(span.SourceFile))

	summary := strings.TrimSpace(span.Summary)
	subtitle := strings.TrimSpace(span.Subtitle)
	if summary != "" && !strings.EqualFold(summary, subtitle) {
		b.WriteString("\nSummary: ")
		b.WriteString(summary)
	}
	if subtitle != "" {
		b.WriteString("\nSubtitle: ")
		b.WriteString(subtitle)
	}
	if meta := f.metadataLine(span); meta != "" {
		b.WriteString("\n")
		b.WriteString(meta)
	}

	b.WriteString("\n\n")
	bodies := make([]string, 0, len(span.Chunks))
	for _, c := range span.Chunks {
		bodies = append(bodies, c.Chunk)
	}
	b.WriteString(strings.Join(bodies, "\n"))
	return b.String()
}

// Render joins all spans with a visible separator. No spans, no context.
func (f *Formatter) Render(spans []Span) string {
	if len(spans) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(spans))
	for _, span := range spans {
		rendered = append(rendered, f.RenderSpan(span))
	}
	return strings.Join(rendered, spanSeparator)
}

func (f *Formatter) metadataLine(span Span) string {
	var parts []string
	if sponsor := strings.TrimSpace(span.Sponsor); sponsor != "" {
		parts = append(parts, "Sponsor: "+sponsor)
	}
	if span.DateFiled != nil {
		parts = append(parts, "Filed: "+span.DateFiled.Format("2006-01-02"))
	}
	return strings.Join(parts, " | ")
}
