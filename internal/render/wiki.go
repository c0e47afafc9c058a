package render

// wikiRenderer produces TWiki markup suitable for pasting into a wiki page.
type wikiRenderer struct {
	buffer
}

// wikiChunkRows is the row count past which a headerless table is folded
// into a side-by-side multi-column layout to keep long per-day lists short.
const wikiChunkRows = 10

func (r *wikiRenderer) Header(text string) {
	r.add("\n---++%s\n", text)
}

func (r *wikiRenderer) SectionHeader(text string) {
	r.add("\n---++++%s\n", text)
}

func (r *wikiRenderer) LargeText(text string) {
	r.add("%s\n", text)
}

func (r *wikiRenderer) Table(rows [][]string, hasHeader bool) {
	if len(rows) == 0 {
		return
	}

	if len(rows) >= wikiChunkRows && !hasHeader {
		r.transposedTable(rows)
		return
	}

	for i, row := range rows {
		r.row(row, hasHeader && i == 0, true)
	}
}

// row emits one "| ... |" line. Header rows bold every cell; data rows
// bold only the leading label cell, and the transposed layout bolds none.
func (r *wikiRenderer) row(cells []string, boldAll, boldFirst bool) {
	line := "|"
	for i, cell := range cells {
		if boldAll || (boldFirst && i == 0) {
			line += " *" + cell + "* |"
		} else {
			line += " " + cell + " |"
		}
	}
	r.add("%s\n", line)
}

// transposedTable chunks the rows into groups of ten and lays the groups
// out side by side, so a long per-week list becomes at most ten lines
// rather than one long column.
func (r *wikiRenderer) transposedTable(rows [][]string) {
	cols := len(rows[0])

	var chunks [][][]string
	for i := 0; i < len(rows); i += wikiChunkRows {
		end := i + wikiChunkRows
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[i:end])
	}

	for i := 0; i < wikiChunkRows && i < len(chunks[0]); i++ {
		var line []string
		for _, chunk := range chunks {
			if i < len(chunk) {
				line = append(line, chunk[i]...)
			} else {
				// Ragged tail: pad with empty cells so columns stay aligned.
				line = append(line, make([]string, cols)...)
			}
		}
		r.row(line, false, false)
	}
}

func (r *wikiRenderer) AlignedList(pairs [][2]string) {
	for _, pair := range pairs {
		r.add("   * *%s* - %s\n", pair[0], pair[1])
	}
}

func (r *wikiRenderer) FormatStory(story string) string {
	if story == "" {
		return ""
	}
	return "[" + story + "]"
}
