package cli

import (
	"fmt"
	"os"

	"github.com/comfykit/nodedep/internal/branding"
	"github.com/comfykit/nodedep/internal/config"
	"github.com/comfykit/nodedep/internal/updater"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` resolves which custom node plugins a ComfyUI workflow needs,
clones them, and aggregates their Python requirements into one
deduplicated manifest for reproducible builds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Skip the banner for commands that manage their own state.
		for c := cmd; c != nil; c = c.Parent() {
			if c.Name() == "version" || c.Name() == "config" {
				return
			}
		}

		// Non-blocking banner from cached version check.
		u := updater.New(buildVersion)
		u.CheckAndPrintBanner(os.Stderr, config.Dir())
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	return err
}
