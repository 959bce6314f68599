package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aquaflow/internal/config"
	"github.com/roach88/aquaflow/internal/store"
	"github.com/roach88/aquaflow/internal/testutil"
)

// testEnv runs commands against one in-memory backend shared across
// invocations, the way successive CLI runs share a database file.
type testEnv struct {
	t       *testing.T
	backend *store.MemoryBackend
	clock   *testutil.DeterministicClock
	ids     *testutil.SequentialIDGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		t:       t,
		backend: store.NewMemoryBackend(),
		clock:   testutil.NewFixedClock(),
		ids:     testutil.NewSequentialIDGenerator("session"),
	}
}

// run executes one command line and returns its stdout.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()

	opts := &RootOptions{
		OpenBackend: func(*cobra.Command, *config.Config) (store.Backend, error) {
			return e.backend, nil
		},
		Clock: e.clock,
		IDs:   e.ids,
		loadConfig: func(config.Options) (*config.Config, error) {
			return config.Default(), nil
		},
	}
	cmd := newRootCommand(opts)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// mustRun fails the test if the command fails.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "aquaflow %v\n%s", args, out)
	return out
}

// login starts a session for role.
func (e *testEnv) login(role string) {
	e.t.Helper()
	e.mustRun("login", "--email", "user@aquaflow.pk", "--role", role)
}

// envelope is CLIResponse with the payload left encoded.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

func decodeEnvelope(t *testing.T, out string) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), "output: %s", out)
	return env
}

// decodeData decodes a successful JSON response's payload into v.
func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	env := decodeEnvelope(t, out)
	require.Equal(t, "ok", env.Status, "output: %s", out)
	require.NoError(t, json.Unmarshal(env.Data, v))
}
