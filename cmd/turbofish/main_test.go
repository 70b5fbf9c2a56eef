package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/CTAG07/Turbofish/pkg/turbofish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenCmd(t *testing.T) {
	first, err := execute(t, "gen", "--seed", "42", "-n", "20")
	require.NoError(t, err)
	second, err := execute(t, "gen", "--seed", "42", "-n", "20")
	require.NoError(t, err)
	assert.Equal(t, first, second, "a fixed seed gives fixed output")

	lines := strings.Split(strings.TrimSpace(first), "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		expr, err := turbofish.Parse(line)
		require.NoError(t, err, line)
		assert.LessOrEqual(t, expr.Depth(), turbofish.DefaultMaxDepth)
	}
}

func TestGenCmd_Reverse(t *testing.T) {
	out, err := execute(t, "gen", "--reverse", "--seed", "3", "--depth", "4", "-n", "10")
	require.NoError(t, err)

	gen := turbofish.NewGenerator()
	src := turbofish.NewSeededSource(3)
	var want strings.Builder
	for i := 0; i < 10; i++ {
		want.WriteString(turbofish.Render(gen.GenerateReverse(src, 4)) + "\n")
	}
	assert.Equal(t, want.String(), out)
}

func TestGenCmd_ZeroDepth(t *testing.T) {
	out, err := execute(t, "gen", "-d", "0", "-n", "10")
	require.NoError(t, err)
	assert.NotContains(t, out, "::")
}

func TestGenCmd_HugeDepth(t *testing.T) {
	for _, args := range [][]string{
		{"gen", "--depth", "9223372036854775807", "-n", "20"},
		{"gen", "--reverse", "--depth", "9223372036854775807", "-n", "20"},
	} {
		out, err := execute(t, args...)
		require.NoError(t, err)
		for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
			_, err := turbofish.Parse(line)
			require.NoError(t, err, line)
		}
	}
}

func TestGenCmd_NegativeCount(t *testing.T) {
	_, err := execute(t, "gen", "-n", "-1")
	assert.ErrorContains(t, err, "count must not be negative")
}

func TestParseCmd(t *testing.T) {
	out, err := execute(t, "parse", "HashMap::< String ,Vec::<u8> >")
	require.NoError(t, err)
	assert.Equal(t, "HashMap::<String, Vec::<u8>>\t(depth 2)\n", out)

	_, err = execute(t, "parse", "not<<a<valid>>token")
	assert.ErrorIs(t, err, turbofish.ErrMalformed)

	_, err = execute(t, "parse")
	assert.Error(t, err)
}
