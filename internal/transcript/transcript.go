// Package transcript partitions rendered message fragments into ordered
// question/answer turns.
package transcript

import (
	"strings"

	"github.com/kkmin1/mhtml2html/internal/strategy"
)

// Sentinels used when a conversation opens with a model message or a
// question never receives an answer.
const (
	NoQuestion = "(no question)"
	NoAnswer   = "(no answer)"
)

// Fragment is one role-tagged message already rendered to text.
type Fragment struct {
	Role strategy.Role
	Text string
}

// Turn is one question/answer exchange; Answer concatenates every
// consecutive model fragment that followed the question.
type Turn struct {
	Question string
	Answer   string
}

// boilerplate lists fixed non-content strings some exports interleave with
// messages; they are filtered out before segmentation, not after.
var boilerplate = map[string]bool{
	"키보드 단축키를 보려면 물음표를 누르세요.": true,
	"키보드 단축키 보기":              true,
}

// Build consumes fragments in document order. A user fragment closes the
// open turn and starts a new one; model fragments accumulate into the open
// answer, joined by blank lines. Turn order is append-only and stable.
func Build(frags []Fragment) []Turn {
	var turns []Turn
	var question string
	var answers []string
	open := false

	closeTurn := func() {
		if !open {
			return
		}
		answer := joinAnswers(answers)
		if answer == "" {
			answer = NoAnswer
		}
		turns = append(turns, Turn{Question: question, Answer: answer})
		open = false
	}

	for _, f := range frags {
		text := strings.TrimSpace(f.Text)
		if text == "" || boilerplate[text] {
			continue
		}

		if f.Role == strategy.RoleUser {
			closeTurn()
			question = text
			answers = nil
			open = true
			continue
		}

		if !open {
			question = NoQuestion
			answers = nil
			open = true
		}
		answers = append(answers, text)
	}
	closeTurn()

	return turns
}

func joinAnswers(answers []string) string {
	kept := answers[:0]
	for _, a := range answers {
		if strings.TrimSpace(a) != "" {
			kept = append(kept, a)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n\n"))
}
