package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aquaflow/internal/export"
	"github.com/roach88/aquaflow/internal/mutator"
	"github.com/roach88/aquaflow/internal/session"
	"github.com/roach88/aquaflow/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(CodeNotFound, "customer 9 not found", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
	assert.Equal(t, "customer 9 not found", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	err := formatter.Error(CodeValidation, "bad input", map[string]string{"field": "phone"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E_VALIDATION]: bad input")
	assert.Contains(t, buf.String(), "Details: map[field:phone]")
}

func TestOutputFormatter_Render(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Render(42, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "forty-two")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "forty-two", buf.String())
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	formatter.VerboseLog("opened %s", "store")
	assert.Empty(t, out.String())
	assert.Equal(t, "opened store\n", errOut.String())

	formatter.Verbose = false
	formatter.VerboseLog("hidden")
	assert.Equal(t, "opened store\n", errOut.String())
}

func TestOutputFormatter_FailMarksReported(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Fail(session.ErrNoSession)
	assert.True(t, IsReported(err))
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Contains(t, buf.String(), "Error [E_SESSION]")
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		exit int
	}{
		{"validation", &mutator.Error{Code: mutator.CodeValidation, Message: "bad"}, CodeValidation, ExitFailure},
		{"not found", &mutator.Error{Code: mutator.CodeNotFound, Entity: "Order", ID: 3}, CodeNotFound, ExitFailure},
		{"not confirmed", &mutator.Error{Code: mutator.CodeNotConfirmed}, CodeNotConfirmed, ExitFailure},
		{"transition", fmt.Errorf("pay: %w", &mutator.Error{Code: mutator.CodeTransition}), CodeTransition, ExitFailure},
		{"conflict", fmt.Errorf("save: %w", store.ErrConflict), CodeConflict, ExitFailure},
		{"forbidden", session.ErrForbidden, CodeSession, ExitFailure},
		{"invalid login", session.ErrInvalidLogin, CodeSession, ExitFailure},
		{"empty export", fmt.Errorf("export customers: %w", export.ErrNothingToExport), CodeValidation, ExitFailure},
		{"usage", usageError("invalid id %q", "x"), CodeValidation, ExitCommandError},
		{"other", errors.New("disk full"), CodeStore, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit, _ := classifyError(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.exit, exit)
		})
	}
}

func TestExitError(t *testing.T) {
	err := NewExitError(ExitCommandError, "scenarios directory not found: x")
	assert.Equal(t, "scenarios directory not found: x", err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.False(t, IsReported(err))

	cause := errors.New("boom")
	wrapped := WrapExitError(ExitFailure, "open", cause)
	assert.Equal(t, "open: boom", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)

	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestTable(t *testing.T) {
	buf := &bytes.Buffer{}
	err := table(buf, []string{"ID", "Name"}, [][]string{{"1", "Cafe One"}, {"12", "Gym"}})
	require.NoError(t, err)
	assert.Equal(t, "ID  Name\n1   Cafe One\n12  Gym\n", buf.String())
}
