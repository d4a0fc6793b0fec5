package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/glintlang/glint/glint"
)

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(":quit")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateHelpCommandTogglesPanel(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(":help")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestHandleCommandSciTogglesScientificMode(t *testing.T) {
	m := newREPLModel()

	rm, _ := m.handleCommand(":sci")
	if !rm.scientific {
		t.Fatalf("scientific mode not enabled")
	}
	if len(rm.history) == 0 || !strings.Contains(rm.history[len(rm.history)-1].output, "Scientific mode on") {
		t.Fatalf("missing scientific mode confirmation")
	}

	rm.env["a"] = glint.NewInt(2)
	rm.env["x"] = glint.NewInt(5)
	output, isErr := rm.evaluate("a x")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if output != "10" {
		t.Fatalf("expected juxtaposition multiply, got %q", output)
	}
}

func TestHandleCommandUnknownReportsError(t *testing.T) {
	m := newREPLModel()

	rm, _ := m.handleCommand(":bogus")
	if len(rm.history) == 0 {
		t.Fatalf("expected a history entry")
	}
	last := rm.history[len(rm.history)-1]
	if !last.isErr || !strings.Contains(last.output, "Unknown command") {
		t.Fatalf("unexpected entry: %+v", last)
	}
}

func TestHandleCommandResetClearsEnvironment(t *testing.T) {
	m := newREPLModel()
	m.env["score"] = glint.NewInt(42)

	rm, _ := m.handleCommand(":reset")
	if len(rm.env) != 0 {
		t.Fatalf("environment not cleared: %v", rm.env)
	}
}

func TestEvaluateAssignmentStoresVariable(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.evaluate("score = 42")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}

	score, ok := m.env["score"]
	if !ok {
		t.Fatalf("expected score to be stored in repl env")
	}
	if score.Kind() != glint.KindInt || score.Int() != 42 {
		t.Fatalf("unexpected score value: %#v", score)
	}
}

func TestEvaluateEqualityDoesNotOverwriteVariable(t *testing.T) {
	m := newREPLModel()
	m.env["a"] = glint.NewInt(5)

	output, isErr := m.evaluate("a == 5")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}

	a := m.env["a"]
	if a.Kind() != glint.KindInt || a.Int() != 5 {
		t.Fatalf("variable a was clobbered by equality expression: %#v", a)
	}
}

func TestEvaluateStoresLastResult(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.evaluate("6 * 7")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if output != "42" {
		t.Fatalf("unexpected output: %q", output)
	}
	last, ok := m.env["_"]
	if !ok || last.Int() != 42 {
		t.Fatalf("expected _ to hold the last result")
	}
}

func TestEvaluateReportsErrors(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.evaluate("missing(1)")
	if !isErr {
		t.Fatalf("expected an error, got %q", output)
	}
	if !strings.Contains(output, "undefined name missing") {
		t.Fatalf("unexpected error output: %q", output)
	}
}

func TestAutocompleteSingleMatchCompletes(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue("cla")

	rm := m.handleAutocomplete()
	if rm.textInput.Value() != "clamp" {
		t.Fatalf("expected clamp completion, got %q", rm.textInput.Value())
	}
}

func TestAutocompleteMultipleMatchesListsThem(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue("m")

	rm := m.handleAutocomplete()
	if len(rm.history) == 0 {
		t.Fatalf("expected completion list in history")
	}
	last := rm.history[len(rm.history)-1].output
	if !strings.Contains(last, "map") || !strings.Contains(last, "min") || !strings.Contains(last, "max") {
		t.Fatalf("unexpected completions: %q", last)
	}
}

func TestExtractAssignmentsRejectsInvalidNames(t *testing.T) {
	m := newREPLModel()

	m.extractAssignments("a + b = 3", glint.NewInt(3))
	if len(m.env) != 0 {
		t.Fatalf("invalid assignment target stored: %v", m.env)
	}
}
