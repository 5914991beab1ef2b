package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/texsync/texsync/internal/remote"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and persist the session",
	Long: `Logs in to the remote service with your email and password and persists
the resulting session cookies locally. Credentials are sent to the server
once and never stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		reader := bufio.NewReader(os.Stdin)

		if _, err := os.Stat(s.authPath); err == nil {
			ok, err := askYesNo(reader, fmt.Sprintf("A persisted session already exists at %s. Overwrite? [y/N] ", s.authPath))
			if err != nil {
				return err
			}
			if !ok {
				info("Keeping the existing session.")
				return nil
			}
		}

		email, err := askLine(reader, "Email: ")
		if err != nil {
			return err
		}
		password, err := askPassword(reader, "Password: ")
		if err != nil {
			return err
		}

		client := remote.NewClient(s.serverURL, nil)
		session, err := client.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}

		if err := remote.SaveSession(s.authPath, session); err != nil {
			return err
		}
		info("Login successful. Session persisted as %s.", s.authPath)
		return nil
	},
}

func askLine(reader *bufio.Reader, question string) (string, error) {
	fmt.Print(question)
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// askPassword reads an answer without echoing it back. When stdin is
// not a terminal (piped input, tests) it falls back to a plain line
// read.
func askPassword(reader *bufio.Reader, question string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return askLine(reader, question)
	}

	fmt.Print(question)
	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func askYesNo(reader *bufio.Reader, question string) (bool, error) {
	answer, err := askLine(reader, question)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
