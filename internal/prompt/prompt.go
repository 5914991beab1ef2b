// Package prompt supplies human decisions on a terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/texsync/texsync/internal/engine"
)

// Terminal asks on Out and reads answers from In. Unrecognized answers
// reprompt; an empty answer takes the safe default (decline, ignore).
type Terminal struct {
	In     io.Reader
	Out    io.Writer
	reader *bufio.Reader
}

// NewTerminal returns a Terminal over the given streams.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{In: in, Out: out, reader: bufio.NewReader(in)}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

// ConfirmOverwrite asks whether the destination copy may be overwritten
// even though the source copy is not newer.
func (t *Terminal) ConfirmOverwrite(name string, dir engine.Direction) (bool, error) {
	for {
		fmt.Fprintf(t.Out,
			"Warning: the %s copy of %s is not older than the %s copy and will be overwritten. Continue? [y/N] ",
			dir.To, name, dir.From)

		answer, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch answer {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
	}
}

// ResolveDeletion asks what to do about a file the source no longer has.
func (t *Terminal) ResolveDeletion(name string, dir engine.Direction) (engine.DeletionChoice, error) {
	for {
		fmt.Fprintf(t.Out,
			"%s exists on %s but not on %s. [d]elete it, [r]estore it, or [i]gnore? [I] ",
			name, dir.To, dir.From)

		answer, err := t.readLine()
		if err != nil {
			return engine.ChoiceIgnore, err
		}
		switch answer {
		case "d", "delete":
			return engine.ChoiceDelete, nil
		case "r", "restore":
			return engine.ChoiceRestore, nil
		case "", "i", "ignore":
			return engine.ChoiceIgnore, nil
		}
	}
}

// NonInteractive declines every overwrite and ignores every deletion
// candidate, so an unattended run never destroys anything.
type NonInteractive struct{}

func (NonInteractive) ConfirmOverwrite(string, engine.Direction) (bool, error) {
	return false, nil
}

func (NonInteractive) ResolveDeletion(string, engine.Direction) (engine.DeletionChoice, error) {
	return engine.ChoiceIgnore, nil
}
