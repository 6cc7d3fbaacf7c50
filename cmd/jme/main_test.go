package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runJME runs the command with a quiet log level and returns its exit
// status, stdout and stderr.
func runJME(t *testing.T, environ []string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	environ = append([]string{"JME_LOG_LEVEL=error"}, environ...)
	code := run(context.Background(), args, &stdout, &stderr, environ)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_Eval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"arithmetic", []string{"eval", "1+2*3"}, "7"},
		{"variables", []string{"eval", "-var", "a=2", "-var", "b = a^3", "b-a"}, "6"},
		{"string", []string{"eval", `"x"+1`}, `"x1"`},
		{"list", []string{"eval", "[1,2]+[3]"}, "[1,2,3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runJME(t, nil, tt.args...)
			require.Equal(t, 0, code, errOut)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"no command", nil, 2, "usage"},
		{"unknown command", []string{"frobnicate"}, 2, "unknown command"},
		{"missing expression", []string{"eval"}, 2, "expected one expression"},
		{"bad var", []string{"eval", "-var", "novalue", "1"}, 2, "name=expr"},
		{"parse error", []string{"eval", "(1"}, 1, "jme:"},
		{"undefined ruleset", []string{"simplify", "-rules", "nosuch", "x"}, 1, "nosuch"},
		{"missing config", []string{"-config", "/nonexistent.yaml", "eval", "1"}, 1, "read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runJME(t, nil, tt.args...)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, errOut, tt.msg)
		})
	}
}

func TestRun_InvalidSettings(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"eval", "1"}, &stdout, &stderr, []string{"JME_MAX_DEPTH=-5"})
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "max_depth")
}

func TestRun_Simplify(t *testing.T) {
	code, out, errOut := runJME(t, nil, "simplify", "2+3+x")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "x+5\n", out)

	code, out, errOut = runJME(t, nil, "simplify", "-rules", "all, !collectNumbers", "2+3")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "2+3\n", out)

	code, out, errOut = runJME(t, []string{"JME_DEFAULT_RULESET=unitFactor"}, "simplify", "x*1")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "x\n", out)
}

func TestRun_Vars(t *testing.T) {
	path := writeFile(t, "q1.yaml", `
variables:
  a: "3"
  b: "a^2"
  c: "double(b)"
condition: "b > 5"
functions:
  - name: double
    parameters:
      - {name: x, type: number}
    type: number
    definition: "2x"
`)

	code, out, errOut := runJME(t, nil, "vars", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "a = 3\nb = 9\nc = 18\n", out)

	failing := writeFile(t, "q2.yaml", "variables:\n  a: \"1\"\ncondition: \"a > 5\"\n")
	code, out, errOut = runJME(t, nil, "vars", "-runs", "1", failing)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "condition not satisfied\n", out)

	code, _, errOut = runJME(t, nil, "vars", "-runs", "3", failing)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "condition not satisfied after 3 runs")
}

func TestRun_StoredDefinitions(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "jme.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store_path: "+filepath.Join(dir, "defs.db")+"\n"), 0o600))

	rules := writeFile(t, "rules.yaml", `
rulesets:
  - name: tidy
    include: unitFactor
    rules:
      - {pattern: '?;x+0', result: 'x'}
`)
	code, out, errOut := runJME(t, nil, "-config", cfgPath, "rulesets", "-load", rules)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "tidy (stored v1)\n")
	assert.Contains(t, out, "basic\n")

	code, out, errOut = runJME(t, nil, "-config", cfgPath, "simplify", "-rules", "tidy", "y*1+0")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "y\n", out)

	vars := writeFile(t, "q.yaml", "variables:\n  n: \"4\"\n  m: \"n+1\"\n")
	code, _, errOut = runJME(t, nil, "-config", cfgPath, "vars", "-save", "q", vars)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "saved q version 1")

	code, out, errOut = runJME(t, nil, "-config", cfgPath, "vars", "-stored", "q")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "m = 5\nn = 4\n", out)

	code, out, _ = runJME(t, nil, "-config", cfgPath, "rulesets")
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "tidy (stored v1)")
}
