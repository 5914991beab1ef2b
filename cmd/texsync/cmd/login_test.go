package cmd

import (
	"bufio"
	"strings"
	"testing"
)

func TestAskPasswordReadsLineWhenStdinIsNotATerminal(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("s3cret\n"))

	got, err := askPassword(reader, "")
	if err != nil {
		t.Fatalf("askPassword: %v", err)
	}
	if got != "s3cret" {
		t.Errorf("askPassword = %q, want %q", got, "s3cret")
	}
}

func TestAskYesNoAcceptsYesVariants(t *testing.T) {
	for answer, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false} {
		reader := bufio.NewReader(strings.NewReader(answer))
		got, err := askYesNo(reader, "")
		if err != nil {
			t.Fatalf("askYesNo(%q): %v", answer, err)
		}
		if got != want {
			t.Errorf("askYesNo(%q) = %v, want %v", answer, got, want)
		}
	}
}
