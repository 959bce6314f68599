package harness

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Render formats a result as the plain-text trace stored in golden files.
//
// Each trace line is "<seq> <phase> <action> <args> -> <outcome>", followed by
// the affected record id or the error text. Audit lines list the entries the
// scenario appended.
func Render(r *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Name)
	fmt.Fprintf(&b, "pass: %t\n", r.Pass)

	b.WriteString("trace:\n")
	for _, ev := range r.Trace {
		fmt.Fprintf(&b, "  %d %s %s", ev.Seq, ev.Phase, ev.Action)
		if ev.Args != "" {
			fmt.Fprintf(&b, " %s", ev.Args)
		}
		fmt.Fprintf(&b, " -> %s", ev.Outcome)
		switch {
		case ev.Error != "":
			fmt.Fprintf(&b, ": %s", ev.Error)
		case ev.RecordID != 0:
			fmt.Fprintf(&b, " #%d", ev.RecordID)
		}
		b.WriteString("\n")
	}

	b.WriteString("audit:\n")
	for _, e := range r.Audit {
		fmt.Fprintf(&b, "  %d %s %s %s %q %q %s\n",
			e.ID, e.Timestamp, e.Action, e.Entity, e.EntityID, e.Details, e.User)
	}

	if len(r.Errors) > 0 {
		b.WriteString("errors:\n")
		for _, msg := range r.Errors {
			fmt.Fprintf(&b, "  %s\n", msg)
		}
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares the rendered trace against a
// golden file. The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Render(result))
}
