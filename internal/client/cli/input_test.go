package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  Boston fern \n"), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "Boston fern", got)
	assert.Equal(t, "Name\n> ", out.String())
}

func TestGetSimpleText_LastLineWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name", &out)
	require.Error(t, err)
}

func TestGetOptional_KeepsCurrent(t *testing.T) {
	var out bytes.Buffer
	got, err := GetOptional(rdr("\n"), "Care type", "water", &out)
	require.NoError(t, err)
	assert.Equal(t, "water", got)
	assert.Contains(t, out.String(), "Care type [water]")

	got, err = GetOptional(rdr("prune\n"), "Care type", "water", &out)
	require.NoError(t, err)
	assert.Equal(t, "prune", got)
}

func TestGetRequired(t *testing.T) {
	var out bytes.Buffer
	_, err := GetRequired(rdr("\n"), "Name", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name: value required")
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	for in, want := range map[string]bool{"yes\n": true, "Y\n": true, "no\n": false, "\n": false, "sure\n": false} {
		got, err := Confirm(rdr(in), "Really", &out)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestStdinIsTerminal_UsesSeam(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	isTerminal = func(int) bool { return true }
	assert.True(t, stdinIsTerminal())
	isTerminal = func(int) bool { return false }
	assert.False(t, stdinIsTerminal())
}
