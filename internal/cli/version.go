package cli

import (
	"encoding/json"
	"fmt"

	"github.com/comfykit/nodedep/internal/branding"
	"github.com/comfykit/nodedep/internal/config"
	"github.com/comfykit/nodedep/internal/updater"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
	versionCheck bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionShort {
			fmt.Println(buildVersion)
			return nil
		}

		if versionJSON {
			info := map[string]string{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
			}
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)

		if versionCheck {
			u := updater.New(buildVersion)
			result, err := u.Check(config.Dir())
			if err != nil {
				return fmt.Errorf("checking latest release: %w", err)
			}
			if result.UpdateAvailable {
				fmt.Printf("Update available: %s -> %s\n", buildVersion, result.LatestVersion)
			} else {
				fmt.Println("You are on the latest version.")
			}
		}
		return nil
	},
}
