package cmd

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	"github.com/syncforge/forgeup/pkg/config"
)

var (
	// Global flags
	configFile  string
	versionSpec string
	binDir      string
	dryRun      bool
	verbose     bool
	quiet       bool
)

// RootCmd is the forgeup command. It has no subcommands; running it performs
// the install.
var RootCmd = &cobra.Command{
	Use:   "forgeup",
	Short: "Install prebuilt forgectl release binaries",
	Long: `forgeup downloads a forgectl release archive for the host platform, verifies it
against the release checksum manifest, and places the binary on your PATH.

Releases before v1.5.0 were published under the old forge-cli name; forgeup
fetches the right binary for the requested version automatically.`,
	Example: `  # Install the latest release
  forgeup

  # Install a specific release
  forgeup --version 1.4.0
  forgeup -v v2.1.0

  # Show what would be installed without downloading anything
  forgeup --dry-run`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetHandler(cli.Default)
		if verbose {
			log.SetLevel(log.DebugLevel)
		} else if quiet {
			log.SetLevel(log.ErrorLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
	},
	RunE: runInstall,
}

func init() {
	RootCmd.Flags().StringVarP(&versionSpec, "version", "v", "latest", `Release version to install ("latest", "1.4.0" or "v1.4.0")`)
	RootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to install manifest (default: "+config.DefaultPathYML+")")
	RootCmd.Flags().StringVarP(&binDir, "bin-dir", "b", "", "Installation directory")
	RootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the install plan without downloading")
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Increase log verbosity")
	RootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress progress output")
}
