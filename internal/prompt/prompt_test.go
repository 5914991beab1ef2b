package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texsync/texsync/internal/engine"
)

func TestConfirmOverwriteAnswers(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"what\ny\n", true}, // reprompts until recognized
	}

	for _, tc := range cases {
		var out bytes.Buffer
		term := NewTerminal(strings.NewReader(tc.input), &out)

		ok, err := term.ConfirmOverwrite("main.tex", engine.LocalToRemote)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, ok, "input %q", tc.input)
		assert.Contains(t, out.String(), "main.tex")
		assert.Contains(t, out.String(), "remote copy of main.tex is not older")
	}
}

func TestConfirmOverwriteAcceptsAnswerWithoutNewline(t *testing.T) {
	term := NewTerminal(strings.NewReader("y"), &bytes.Buffer{})
	ok, err := term.ConfirmOverwrite("main.tex", engine.RemoteToLocal)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResolveDeletionAnswers(t *testing.T) {
	cases := []struct {
		input string
		want  engine.DeletionChoice
	}{
		{"d\n", engine.ChoiceDelete},
		{"delete\n", engine.ChoiceDelete},
		{"r\n", engine.ChoiceRestore},
		{"restore\n", engine.ChoiceRestore},
		{"i\n", engine.ChoiceIgnore},
		{"\n", engine.ChoiceIgnore},
		{"x\nd\n", engine.ChoiceDelete},
	}

	for _, tc := range cases {
		var out bytes.Buffer
		term := NewTerminal(strings.NewReader(tc.input), &out)

		choice, err := term.ResolveDeletion("old.tex", engine.LocalToRemote)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, choice, "input %q", tc.input)
		assert.Contains(t, out.String(), "old.tex exists on remote but not on local")
	}
}

func TestEmptyInputErrors(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})
	_, err := term.ConfirmOverwrite("main.tex", engine.LocalToRemote)
	assert.Error(t, err)
}

func TestNonInteractiveIsSafe(t *testing.T) {
	var d NonInteractive

	ok, err := d.ConfirmOverwrite("main.tex", engine.LocalToRemote)
	require.NoError(t, err)
	assert.False(t, ok)

	choice, err := d.ResolveDeletion("old.tex", engine.LocalToRemote)
	require.NoError(t, err)
	assert.Equal(t, engine.ChoiceIgnore, choice)
}
