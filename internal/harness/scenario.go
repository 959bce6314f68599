package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aquaflow/internal/model"
)

// Scenario is a scripted sequence of mutator calls against the demo document.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setup steps run before the flow and must all succeed.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow is the main sequence. Each step may state its expected outcome.
	Flow []Step `yaml:"flow"`

	// Assertions are evaluated against the final document.
	Assertions []Assertion `yaml:"assertions"`
}

// Step invokes one action.
type Step struct {
	// Invoke names the action, e.g. "inventory.restock".
	Invoke string `yaml:"invoke"`

	// Args is decoded into the action's argument struct.
	Args yaml.Node `yaml:"args"`

	// Expect is the outcome; empty means ok.
	Expect Outcome `yaml:"expect,omitempty"`
}

// Outcome classifies the result of a step.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeValidation   Outcome = "validation"
	OutcomeTransition   Outcome = "transition"
	OutcomeNotConfirmed Outcome = "not_confirmed"

	// OutcomeError is reported for failures that are not mutator errors.
	// Scenarios cannot expect it.
	OutcomeError Outcome = "error"
)

var expectable = []Outcome{OutcomeOK, OutcomeNotFound, OutcomeValidation, OutcomeTransition, OutcomeNotConfirmed}

// Assertion checks the final document.
type Assertion struct {
	// Type is one of count, record, audit_contains.
	Type string `yaml:"type"`

	// Collection names the collection for count and record.
	Collection string `yaml:"collection,omitempty"`

	// ID selects the record for record assertions.
	ID int64 `yaml:"id,omitempty"`

	// Field is the JSON field compared by record assertions.
	Field string `yaml:"field,omitempty"`

	// Equals is the expected count or field value.
	Equals any `yaml:"equals,omitempty"`

	// Action, Entity, EntityID and Details match audit entries for
	// audit_contains. Empty fields match anything; Details is a substring.
	Action   string `yaml:"action,omitempty"`
	Entity   string `yaml:"entity,omitempty"`
	EntityID string `yaml:"entity_id,omitempty"`
	Details  string `yaml:"details,omitempty"`
}

// Assertion type constants.
const (
	AssertCount         = "count"
	AssertRecord        = "record"
	AssertAuditContains = "audit_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
		if step.Expect != "" && step.Expect != OutcomeOK {
			return fmt.Errorf("setup[%d]: setup steps must succeed", i)
		}
	}
	for i, step := range s.Flow {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	if step.Invoke == "" {
		return fmt.Errorf("invoke is required")
	}
	if _, ok := actions[step.Invoke]; !ok {
		return fmt.Errorf("unknown action %q", step.Invoke)
	}
	if step.Args.Kind != 0 && step.Args.Kind != yaml.MappingNode {
		return fmt.Errorf("args must be a mapping")
	}
	if step.Expect != "" && !slices.Contains(expectable, step.Expect) {
		return fmt.Errorf("unknown outcome %q", step.Expect)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("type is required")
	case AssertCount:
		if _, err := model.ParseCollection(a.Collection); err != nil {
			return err
		}
		if _, ok := a.Equals.(int); !ok {
			return fmt.Errorf("count requires an integer equals")
		}
	case AssertRecord:
		if _, err := model.ParseCollection(a.Collection); err != nil {
			return err
		}
		if a.ID == 0 || strings.TrimSpace(a.Field) == "" {
			return fmt.Errorf("record requires id and field")
		}
	case AssertAuditContains:
		if a.Action == "" && a.Entity == "" && a.EntityID == "" && a.Details == "" {
			return fmt.Errorf("audit_contains requires at least one matcher")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
