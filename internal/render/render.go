// Package render turns report data into one of several textual layouts.
// Renderers are stateless strategies apart from the fragment buffer they
// accumulate; the final string is materialized once, at Flatten.
package render

import (
	"fmt"
	"strings"
)

// Format selects a concrete renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatWiki     Format = "wiki"
	FormatMarkdown Format = "markdown"
)

// Renderer is the capability set shared by all output layouts. Rendering
// never fails: empty or unknown inputs produce empty sections.
type Renderer interface {
	// Header emits a top-level report title.
	Header(text string)
	// SectionHeader emits a second-level title.
	SectionHeader(text string)
	// Table emits tabular data. When hasHeader is true the first row is a
	// header row. Formats may restyle or suppress tables entirely.
	Table(rows [][]string, hasHeader bool)
	// AlignedList emits label/value pairs with the labels lined up.
	AlignedList(pairs [][2]string)
	// LargeText emits a prominent standalone line.
	LargeText(text string)
	// FormatStory decorates a story tag for inline use; empty in, empty out.
	FormatStory(story string) string
	// Flatten materializes everything emitted so far into one string.
	Flatten() string
}

// New returns a fresh renderer for the given format.
func New(format Format) (Renderer, error) {
	switch format {
	case FormatText:
		return &textRenderer{}, nil
	case FormatWiki:
		return &wikiRenderer{}, nil
	case FormatMarkdown:
		return &markdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// buffer collects output fragments for the renderers.
type buffer struct {
	pieces []string
}

func (b *buffer) add(format string, args ...any) {
	b.pieces = append(b.pieces, fmt.Sprintf(format, args...))
}

// Flatten joins the accumulated fragments.
func (b *buffer) Flatten() string {
	return strings.Join(b.pieces, "")
}

// columnWidths returns the widest cell per column across all rows.
func columnWidths(rows [][]string) []int {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}
