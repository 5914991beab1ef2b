package cmd

import (
	"github.com/spf13/cobra"

	"github.com/texsync/texsync/internal/remote"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List your active remote projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		session, err := remote.LoadSession(s.authPath)
		if err != nil {
			return err
		}

		client := remote.NewClient(s.serverURL, session)
		projects, err := client.Projects(cmd.Context())
		if err != nil {
			return err
		}

		if len(projects) == 0 {
			info("No active projects.")
			return nil
		}
		for _, p := range projects {
			info("%s  (updated %s)", p.Name, p.LastUpdated.Format("2006-01-02 15:04"))
			detail("id: %s", p.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
