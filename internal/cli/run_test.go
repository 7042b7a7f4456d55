package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "no args", args: []string{"fina"}},
		{name: "long flag", args: []string{"fina", "--help"}},
		{name: "short flag", args: []string{"fina", "-h"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer

			exitCode := Run(nil, &stdout, &stderr, tc.args, nil)
			require.Equal(t, 0, exitCode)
			require.Empty(t, stderr.String())

			out := stdout.String()
			require.Contains(t, out, "fina - inspect and query PhpFina time-series feeds")
			require.Contains(t, out, "meta")
			require.Contains(t, out, "values")
			require.Contains(t, out, "stats")
		})
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	exitCode := Run(nil, &stdout, &stderr, []string{"fina", "bogus"}, nil)
	require.Equal(t, 1, exitCode)
	require.Contains(t, stderr.String(), "unknown command")
}

func TestRun_MetaEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFeed(t, dir, 1, 10, 1_700_000_000, []float32{1, 2, 3})

	var stdout, stderr bytes.Buffer

	exitCode := Run(nil, &stdout, &stderr, []string{"fina", "--data-dir", dir, "meta", "1"}, nil)
	require.Equal(t, 0, exitCode, stderr.String())
	require.Contains(t, stdout.String(), `"Interval": 10`)
}

func TestRun_MetaMissingFeed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var stdout, stderr bytes.Buffer

	exitCode := Run(nil, &stdout, &stderr, []string{"fina", "--data-dir", dir, "meta", "1"}, nil)
	require.Equal(t, 1, exitCode)
	require.True(t, strings.Contains(stderr.String(), "file missing") || strings.Contains(stderr.String(), "does not exist"))
}
