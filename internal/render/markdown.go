package render

import (
	"regexp"
	"strconv"
	"strings"
)

// Markdown assembles an event stream into cleaned Markdown-shaped text.
// Consecutive block boundaries collapse so the output never carries more
// than one blank line between blocks.
func Markdown(events []Event) string {
	var w mdWriter
	var table [][]string

	flushTable := func() {
		if len(table) == 0 {
			return
		}
		width := 0
		for _, row := range table {
			if len(row) > width {
				width = len(row)
			}
		}
		w.ensureNewlines(2)
		w.write(tableLine(padRow(table[0], width)))
		sep := make([]string, width)
		for i := range sep {
			sep[i] = "---"
		}
		w.write(tableLine(sep))
		for _, row := range table[1:] {
			w.write(tableLine(padRow(row, width)))
		}
		w.write("\n")
		table = nil
	}

	for _, ev := range events {
		if ev.Kind != KindTableRow {
			flushTable()
		}
		switch ev.Kind {
		case KindText:
			w.write(ev.Text)
		case KindBreak:
			w.ensureNewlines(ev.Newlines)
		case KindHeading:
			w.ensureNewlines(2)
			w.write(headingMarker(ev.Level) + " " + ev.Text + "\n\n")
		case KindListItem:
			w.ensureNewlines(1)
			w.write(strings.Repeat("  ", ev.Depth))
			if ev.Ordinal > 0 {
				w.write(strconv.Itoa(ev.Ordinal) + ". ")
			} else {
				w.write("- ")
			}
		case KindTableRow:
			table = append(table, ev.Cells)
		case KindImage:
			w.ensureNewlines(1)
			w.write("![" + ev.Text + "](" + ev.Ref + ")\n\n")
		}
	}
	flushTable()

	return Cleanup(w.b.String())
}

// headingMarker keeps literal h1-h6 levels; style-cue headings (level 0)
// render at one fixed level that separates them from body text.
func headingMarker(level int) string {
	if level <= 0 {
		return "####"
	}
	return strings.Repeat("#", level)
}

func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

func tableLine(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |\n"
}

// mdWriter appends text while tracking trailing newlines so block
// boundaries collapse instead of stacking.
type mdWriter struct {
	b        strings.Builder
	trailing int
	started  bool
}

func (w *mdWriter) write(s string) {
	if s == "" {
		return
	}
	w.b.WriteString(s)
	i := len(s)
	for i > 0 && s[i-1] == '\n' {
		i--
	}
	if i == 0 {
		w.trailing += len(s)
	} else {
		w.trailing = len(s) - i
		w.started = true
	}
}

// ensureNewlines pads with line breaks so at least n trail; nothing is
// written before the first visible content.
func (w *mdWriter) ensureNewlines(n int) {
	if !w.started {
		return
	}
	if w.trailing < n {
		w.write(strings.Repeat("\n", n-w.trailing))
	}
}

var (
	trailingWSRe = regexp.MustCompile(`[ \t]+\n`)
	blankRunsRe  = regexp.MustCompile(`\n{3,}`)
	spaceRunsRe  = regexp.MustCompile(`[ \t]{2,}`)
	listMarkerRe = regexp.MustCompile(`^(-|\d+\.)\s`)
)

// Cleanup is the single final pass over concatenated output text: line
// endings normalized, per-line edge whitespace stripped, 3+ blank lines
// collapsed to one blank line, and space runs collapsed outside fenced
// code. Leading indentation survives only on list items, where it encodes
// nesting depth.
func Cleanup(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = trailingWSRe.ReplaceAllString(text, "\n")
	text = blankRunsRe.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		body := strings.TrimLeft(line, " \t")
		indent := ""
		if listMarkerRe.MatchString(body) {
			indent = line[:len(line)-len(body)]
		}
		lines[i] = strings.TrimRight(indent+spaceRunsRe.ReplaceAllString(body, " "), " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
