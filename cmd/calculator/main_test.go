package main

import (
	"bytes"
	"net"
	"testing"

	"batch-calculator/internal/grpc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func clearEnv(t *testing.T) {
	t.Setenv("CALCULATOR_GRPC_ADDR", "")
	t.Setenv("CLI_LOG_FILE_PATH", "")
}

func TestRunSuccess(t *testing.T) {
	clearEnv(t)

	code, stdout, stderr := runCLI(t, `[{"operator":"add","operands":[1,2,3]},{"operator":"multiply","operands":[4,5]}]`)

	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stderr)

	expected := `{
  "results": [
    {
      "operation": "add(1, 2, 3)",
      "result": 6
    },
    {
      "operation": "multiply(4, 5)",
      "result": 20
    }
  ]
}
`
	assert.Equal(t, expected, stdout)
}

func TestRunEmptyBatch(t *testing.T) {
	clearEnv(t)

	code, stdout, _ := runCLI(t, `[]`)
	require.Equal(t, 0, code)
	assert.Equal(t, "{\n  \"results\": []\n}\n", stdout)
}

func TestRunOverflowIsNull(t *testing.T) {
	clearEnv(t)

	code, stdout, _ := runCLI(t, `[{"operator":"multiply","operands":[1e308,2]}]`)
	require.Equal(t, 0, code)
	assert.JSONEq(t, `{"results":[{"operation":"multiply(1e+308, 2)","result":null}]}`, stdout)
}

func TestRunOverflowingInputIsNull(t *testing.T) {
	clearEnv(t)

	code, stdout, stderr := runCLI(t, `[{"operator":"add","operands":[1e400,1]}]`)
	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, `{"results":[{"operation":"add(Infinity, 1)","result":null}]}`, stdout)
}

func TestRunIgnoresBadConfigLocally(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRPC_TIMEOUT_MS", "soon")

	code, stdout, stderr := runCLI(t, `[{"operator":"add","operands":[2,3]}]`)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stderr)
	assert.JSONEq(t, `{"results":[{"operation":"add(2, 3)","result":5}]}`, stdout)
}

func TestRunBadConfigFailsRemote(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRPC_TIMEOUT_MS", "soon")
	t.Setenv("CALCULATOR_GRPC_ADDR", "127.0.0.1:1")

	code, stdout, stderr := runCLI(t, `[{"operator":"add","operands":[2,3]}]`)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Error: GRPC_TIMEOUT_MS not a number: \"soon\"\n", stderr)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedStderr string
	}{
		{"no argument", nil, "Usage: calculator '<json_operations>'\n"},
		{"empty argument", []string{""}, "Usage: calculator '<json_operations>'\n"},
		{"invalid JSON", []string{`[{"operator":`}, "Error: Invalid JSON input\n"},
		{"not an array", []string{`{"operator":"add","operands":[1,2]}`}, "Error: Input must be a JSON array of operations\n"},
		{"division by zero", []string{`[{"operator":"divide","operands":[10,0]}]`}, "Error: Division by zero\n"},
		{"too few operands", []string{`[{"operator":"add","operands":[5]}]`}, "Error: Each operation requires at least 2 operands\n"},
		{"unknown operator", []string{`[{"operator":"modulo","operands":[5,2]}]`}, "Error: unknown operator: \"modulo\"\n"},
		{"null operand", []string{`[{"operator":"divide","operands":[1,null]}]`}, "Error: Input must be a JSON array of operations: operand 1 is null\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.expectedStderr)
		})
	}
}

func TestRunFailFastPrintsNothing(t *testing.T) {
	clearEnv(t)

	code, stdout, stderr := runCLI(t, `[{"operator":"add","operands":[1,2]},{"operator":"divide","operands":[100,2,0]}]`)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Error: Division by zero\n", stderr)
}

func TestRunRemote(t *testing.T) {
	clearEnv(t)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := grpc.NewServer()
	go s.Serve(lis)
	defer s.Stop()

	t.Setenv("CALCULATOR_GRPC_ADDR", lis.Addr().String())

	code, stdout, stderr := runCLI(t, `[{"operator":"subtract","operands":[100,30,20,10]}]`)
	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, `{"results":[{"operation":"subtract(100, 30, 20, 10)","result":40}]}`, stdout)

	code, stdout, stderr = runCLI(t, `[{"operator":"add","operands":[1e400,1]}]`)
	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, `{"results":[{"operation":"add(Infinity, 1)","result":null}]}`, stdout)

	code, stdout, stderr = runCLI(t, `[{"operator":"divide","operands":[100,2,0]}]`)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Error: Division by zero\n", stderr)
}
