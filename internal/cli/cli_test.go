package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/paramgrid/internal/param"
	"github.com/zclconf/go-cty/cty"
)

const schemaHCL = `
param "double" "opacity" {
  label    = "Opacity"
  animates = true
  default  = 1
  min      = 0
  max      = 1
  cache_invalidation = "value_change_to_end"
}

param "double2d" "center" {
  default = { x = 0.5, y = 0.5 }
}

param "choice" "mode" {
  options = ["fast", "slow"]
}

param "group" "controls" {}
`

type env struct {
	schema string
	store  string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(schemaHCL), 0o600))
	return env{schema: dir, store: filepath.Join(t.TempDir(), "params.db")}
}

// exec runs one command against the env's store and returns its stdout.
func (e env) exec(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	args = append(args, "--store", e.store, "--log-level", "error")
	err := Execute(context.Background(), args, out, &bytes.Buffer{})
	return out.String(), err
}

func TestValidate(t *testing.T) {
	e := newEnv(t)
	out, err := e.exec(t, "validate", "--schema", e.schema)
	require.NoError(t, err)
	assert.Equal(t, "ok: 4 parameters\n", out)

	// validate never touches the configured store
	_, err = os.Stat(e.store)
	assert.True(t, os.IsNotExist(err))
}

func TestValidate_RequiresSchema(t *testing.T) {
	e := newEnv(t)
	_, err := e.exec(t, "validate")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
}

func TestValidate_ReportsConflicts(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.schema, "extra.yaml"),
		[]byte("params:\n  - name: opacity\n    type: int\n"), 0o600))

	_, err := e.exec(t, "validate", "--schema", e.schema)
	require.Error(t, err)
	assert.True(t, errors.Is(err, param.ErrSchemaConflict))
}

func TestSetGetKeys(t *testing.T) {
	e := newEnv(t)
	_, err := e.exec(t, "describe", "--schema", e.schema)
	require.NoError(t, err)

	_, err = e.exec(t, "set", "opacity", "0", "--time", "0")
	require.NoError(t, err)
	_, err = e.exec(t, "set", "opacity", "1", "--time", "10")
	require.NoError(t, err)

	out, err := e.exec(t, "get", "opacity", "--time", "5")
	require.NoError(t, err)
	assert.Equal(t, "0.5\n", out)

	out, err = e.exec(t, "keys", "opacity")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "10")

	_, err = e.exec(t, "delete-key", "opacity", "--time", "0")
	require.NoError(t, err)
	out, err = e.exec(t, "keys", "opacity")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	_, err = e.exec(t, "delete-key", "opacity", "--all")
	require.NoError(t, err)
	out, err = e.exec(t, "keys", "opacity")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)
}

func TestSetGet_CompositeValue(t *testing.T) {
	e := newEnv(t)
	_, err := e.exec(t, "set", "center", "{x = 1, y = 2}", "--schema", e.schema)
	require.NoError(t, err)

	out, err := e.exec(t, "get", "center")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1,"y":2}`, out)
}

func TestSet_Errors(t *testing.T) {
	e := newEnv(t)
	_, err := e.exec(t, "describe", "--schema", e.schema)
	require.NoError(t, err)

	_, err = e.exec(t, "set", "missing", "1")
	assert.True(t, errors.Is(err, param.ErrNotFound))

	_, err = e.exec(t, "set", "controls", "1")
	assert.ErrorContains(t, err, "holds no value")

	_, err = e.exec(t, "set", "opacity", "bright")
	assert.Error(t, err)
}

func TestDeleteKey_NeedsOneSelector(t *testing.T) {
	e := newEnv(t)
	for _, args := range [][]string{
		{"delete-key", "opacity"},
		{"delete-key", "opacity", "--all", "--time", "1"},
	} {
		_, err := e.exec(t, args...)
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr), "args %v", args)
	}
}

func TestDescribe(t *testing.T) {
	e := newEnv(t)
	out, err := e.exec(t, "describe", "--schema", e.schema)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "POLICY")
	assert.Regexp(t, `^opacity\s+double\s+Opacity\s+1\s+true\s+value_change_to_end`, lines[1])
	assert.Regexp(t, `^controls\s+group\s+controls\s+-\s+-\s+-$`, lines[4])
}

func TestBadLogFormat(t *testing.T) {
	e := newEnv(t)
	_, err := e.exec(t, "describe", "--log-format", "xml")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, exitErr.Message, "log format")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("PARAMGRID_LOG_LEVEL", "debug")
	t.Setenv("PARAMGRID_SCHEMA", strings.Join([]string{"a", "b"}, string(os.PathListSeparator)))

	root := NewRootCommand(&bytes.Buffer{}, &bytes.Buffer{})
	level, err := root.PersistentFlags().GetString("log-level")
	require.NoError(t, err)
	assert.Equal(t, "debug", level)
	schema, err := root.PersistentFlags().GetStringSlice("schema")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, schema)
}

func TestParseValue(t *testing.T) {
	testCases := []struct {
		in   string
		want cty.Value
	}{
		{"42", cty.NumberIntVal(42)},
		{"true", cty.True},
		{`"a b"`, cty.StringVal("a b")},
		{"fast", cty.StringVal("fast")},
		{"{x = 1}", cty.ObjectVal(map[string]cty.Value{"x": cty.NumberIntVal(1)})},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got := parseValue(tc.in)
			require.True(t, tc.want.Type().Equals(got.Type()), "got %#v", got)
			assert.True(t, tc.want.Equals(got).True(), "got %#v", got)
		})
	}
}
