package render

import "strings"

// lineWidth is the total output width aligned-list values wrap to.
const lineWidth = 80

// textRenderer produces plain fixed-width output for terminals and email.
type textRenderer struct {
	buffer
}

func (r *textRenderer) Header(text string) {
	r.add("\n%s\n", text)
}

func (r *textRenderer) SectionHeader(text string) {
	r.add("\n%s\n", text)
}

func (r *textRenderer) LargeText(text string) {
	r.add("%s\n", text)
}

func (r *textRenderer) Table(rows [][]string, hasHeader bool) {
	if len(rows) == 0 {
		return
	}
	// Column widths are sized to the longest cell of this table only.
	widths := columnWidths(rows)
	for _, row := range rows {
		for i, cell := range row {
			r.add("%-*.*s  ", widths[i], widths[i], cell)
		}
		r.add("\n")
	}
}

func (r *textRenderer) AlignedList(pairs [][2]string) {
	if len(pairs) == 0 {
		return
	}
	labelWidth := 0
	for _, pair := range pairs {
		if len(pair[0]) > labelWidth {
			labelWidth = len(pair[0])
		}
	}

	// Values continue under themselves, indented past the label column.
	indent := strings.Repeat(" ", labelWidth+2)
	for _, pair := range pairs {
		wrapped := wrapWords(pair[1], lineWidth-len(indent), indent)
		r.add("%*.*s: %s\n", labelWidth, labelWidth, pair[0], wrapped)
	}
}

func (r *textRenderer) FormatStory(story string) string {
	if story == "" {
		return ""
	}
	return "[" + story + "]"
}

// wrapWords word-wraps text to the given width. Words longer than the
// width (URLs, mostly) are kept whole on their own line. The first line
// carries no indent because it continues the label; later lines are
// prefixed with indent.
func wrapWords(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	lines = append(lines, line)

	return strings.Join(lines, "\n"+indent)
}
