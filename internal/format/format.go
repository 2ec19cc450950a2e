// Package format serializes extracted conversations into the output
// surfaces: Markdown, plain-text transcripts, standalone HTML and PDF.
package format

import (
	"fmt"
	"strings"

	"github.com/kkmin1/mhtml2html/internal/render"
	"github.com/kkmin1/mhtml2html/internal/transcript"
)

// Markdown lays out turns as a Q/A document: one H2 per turn with H3
// question and answer sections.
func Markdown(title string, turns []transcript.Turn) string {
	lines := []string{"# " + title, ""}
	for i, t := range turns {
		lines = append(lines,
			fmt.Sprintf("## Turn %d", i+1), "",
			"### Question", "", t.Question, "",
			"### Answer", "", t.Answer, "")
	}
	return render.Cleanup(strings.Join(lines, "\n")) + "\n"
}

// Document lays out harvested paragraphs of a non-chat page under a single
// title.
func Document(title string, paragraphs []string) string {
	lines := []string{"# " + title, ""}
	for _, p := range paragraphs {
		lines = append(lines, p, "")
	}
	return render.Cleanup(strings.Join(lines, "\n")) + "\n"
}

// PlainText lays out turns in the line-oriented transcript form that
// ParseTranscript reads back.
func PlainText(turns []transcript.Turn) string {
	var b strings.Builder
	for i, t := range turns {
		fmt.Fprintf(&b, "[Turn %d]\n", i+1)
		b.WriteString("Question:\n")
		b.WriteString(t.Question)
		b.WriteString("\n\n")
		b.WriteString("Answer:\n")
		b.WriteString(t.Answer)
		b.WriteString("\n\n")
	}
	return b.String()
}

// ParseTranscript reads a plain-text transcript back into turns. Turn
// markers reset the state machine; Question:/Answer: labels select which
// section subsequent lines belong to. Lines outside any section are
// ignored.
func ParseTranscript(text string) []transcript.Turn {
	var turns []transcript.Turn
	var question, answer []string
	section := ""

	flush := func() {
		q := strings.Trim(strings.Join(question, "\n"), "\n")
		a := strings.Trim(strings.Join(answer, "\n"), "\n")
		if q != "" || a != "" {
			turns = append(turns, transcript.Turn{Question: q, Answer: a})
		}
		question, answer = nil, nil
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "[Turn ") && strings.HasSuffix(line, "]"):
			flush()
			section = ""
		case strings.TrimSpace(line) == "Question:":
			section = "question"
		case strings.TrimSpace(line) == "Answer:":
			section = "answer"
		case section == "question":
			question = append(question, line)
		case section == "answer":
			answer = append(answer, line)
		}
	}
	flush()
	return turns
}
