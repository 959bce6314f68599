package harness

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aquaflow/internal/model"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq     int     `json:"seq"`
	Phase   string  `json:"phase"` // "setup" or "flow"
	Action  string  `json:"action"`
	Args    string  `json:"args,omitempty"`
	Outcome Outcome `json:"outcome"`
	// RecordID is the affected record, 0 when the action returns none.
	RecordID int64  `json:"record_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass indicates overall test success.
	// True if every step matched its expected outcome and every assertion held.
	Pass bool `json:"pass"`

	// Trace contains every executed step in order.
	Trace []TraceEvent `json:"trace"`

	// Audit holds the audit entries appended while the scenario ran.
	Audit []model.AuditEntry `json:"audit"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Trace:  []TraceEvent{},
		Audit:  []model.AuditEntry{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step to the trace and returns it for further edits.
func (r *Result) AddTrace(phase string, step Step) *TraceEvent {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    len(r.Trace) + 1,
		Phase:  phase,
		Action: step.Invoke,
		Args:   formatArgs(&step.Args),
	})
	return &r.Trace[len(r.Trace)-1]
}

// formatArgs renders a mapping node as sorted key=value pairs.
func formatArgs(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.MappingNode {
		return ""
	}
	pairs := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		val := v.Value
		if v.Kind == yaml.ScalarNode && v.ShortTag() == "!!str" {
			val = fmt.Sprintf("%q", v.Value)
		} else if v.Kind != yaml.ScalarNode {
			val = "{...}"
		}
		pairs = append(pairs, k.Value+"="+val)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}
