package render

// markdownRenderer produces Markdown. Tabular data is deliberately not
// emitted in this format: the hour grids read poorly as Markdown tables,
// so reports keep only headers, lists and standalone lines.
type markdownRenderer struct {
	buffer
}

func (r *markdownRenderer) Header(text string) {
	r.add("\n# %s\n", text)
}

func (r *markdownRenderer) SectionHeader(text string) {
	r.add("\n## %s\n", text)
}

func (r *markdownRenderer) LargeText(text string) {
	r.add("%s\n", text)
}

func (r *markdownRenderer) Table(rows [][]string, hasHeader bool) {
}

func (r *markdownRenderer) AlignedList(pairs [][2]string) {
	if len(pairs) == 0 {
		return
	}
	r.add("\n")
	for _, pair := range pairs {
		r.add(" * **%s** %s\n", pair[0], pair[1])
	}
}

func (r *markdownRenderer) FormatStory(story string) string {
	if story == "" {
		return ""
	}
	return "*" + story + "*"
}
