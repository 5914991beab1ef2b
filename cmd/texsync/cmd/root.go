package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	localOnly      bool
	remoteOnly     bool
	syncPath       string
	projectName    string
	serverURL      string
	ignoreFile     string
	authFile       string
	nonInteractive bool
	failFast       bool
	verbose        bool
	quiet          bool
)

var rootCmd = &cobra.Command{
	Use:   "texsync",
	Short: "Two-way synchronization of LaTeX projects",
	Long: `texsync keeps a local directory and a remote Overleaf-style project in
step. It downloads the project once per run, compares both sides file by
file, and uploads, downloads or deletes only what differs. Ambiguous
cases (overwriting a copy that is not older, files one side no longer
has) are put to you instead of decided silently.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case verbose:
			log.SetLevel(log.DebugLevel)
		case quiet:
			log.SetLevel(log.ErrorLevel)
		default:
			log.SetLevel(log.WarnLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if localOnly && remoteOnly {
			return fmt.Errorf("--local-only and --remote-only are mutually exclusive")
		}
		return runSync(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("texsync %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&localOnly, "local-only", "l", false, "sync local files to the remote project only")
	rootCmd.Flags().BoolVarP(&remoteOnly, "remote-only", "r", false, "sync remote files to the local directory only")
	rootCmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop after the first failed direction instead of finishing the other")

	rootCmd.PersistentFlags().StringVarP(&syncPath, "path", "p", ".", "directory of the project to sync")
	rootCmd.PersistentFlags().StringVar(&projectName, "project", "", "remote project name (default: the directory name)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "base URL of the remote service")
	rootCmd.PersistentFlags().StringVarP(&ignoreFile, "ignore-file", "i", "", "path to the ignore rules file")
	rootCmd.PersistentFlags().StringVar(&authFile, "auth-file", "", "path to the persisted session")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt: decline overwrites, ignore deletions")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
