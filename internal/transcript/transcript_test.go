package transcript

import (
	"testing"

	"github.com/kkmin1/mhtml2html/internal/strategy"
)

func TestBuildPairsUserAndModelFragments(t *testing.T) {
	frags := []Fragment{
		{Role: strategy.RoleUser, Text: "Q1"},
		{Role: strategy.RoleModel, Text: "A1a"},
		{Role: strategy.RoleModel, Text: "A1b"},
		{Role: strategy.RoleUser, Text: "Q2"},
	}
	turns := Build(frags)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d: %+v", len(turns), turns)
	}
	if turns[0].Question != "Q1" || turns[0].Answer != "A1a\n\nA1b" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Question != "Q2" || turns[1].Answer != NoAnswer {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
}

func TestBuildLeadingModelFragment(t *testing.T) {
	frags := []Fragment{
		{Role: strategy.RoleModel, Text: "Hello, how can I help?"},
		{Role: strategy.RoleUser, Text: "Q1"},
		{Role: strategy.RoleModel, Text: "A1"},
	}
	turns := Build(frags)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Question != NoQuestion {
		t.Fatalf("leading model text should open a sentinel turn, got %q", turns[0].Question)
	}
	if turns[0].Answer != "Hello, how can I help?" {
		t.Fatalf("unexpected answer: %q", turns[0].Answer)
	}
	if turns[1].Question != "Q1" || turns[1].Answer != "A1" {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
}

func TestBuildDropsEmptyAndBoilerplateFragments(t *testing.T) {
	frags := []Fragment{
		{Role: strategy.RoleModel, Text: "키보드 단축키 보기"},
		{Role: strategy.RoleUser, Text: "  \n\t"},
		{Role: strategy.RoleUser, Text: "Q1"},
		{Role: strategy.RoleModel, Text: "키보드 단축키를 보려면 물음표를 누르세요."},
		{Role: strategy.RoleModel, Text: "A1"},
	}
	turns := Build(frags)
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d: %+v", len(turns), turns)
	}
	if turns[0].Question != "Q1" || turns[0].Answer != "A1" {
		t.Fatalf("unexpected turn: %+v", turns[0])
	}
}

func TestBuildEmptyInput(t *testing.T) {
	if turns := Build(nil); len(turns) != 0 {
		t.Fatalf("expected no turns, got %+v", turns)
	}
}

func TestBuildTrimsFragmentWhitespace(t *testing.T) {
	frags := []Fragment{
		{Role: strategy.RoleUser, Text: "  Q1  \n"},
		{Role: strategy.RoleModel, Text: "\nA1\n"},
	}
	turns := Build(frags)
	if len(turns) != 1 || turns[0].Question != "Q1" || turns[0].Answer != "A1" {
		t.Fatalf("unexpected turns: %+v", turns)
	}
}
