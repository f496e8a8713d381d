package cli

import (
	"os"

	"github.com/ksyq12/certinstall/internal/logger"
	"github.com/spf13/cobra"
)

var (
	workdir    string
	jsonOutput bool
	verbose    bool
	quiet      bool
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "certinstall",
	Short: "Certificate installation for getssl-managed domains",
	Long: `certinstall installs certificates issued by the getssl ACME client.

From a per-domain configuration it derives which artifacts are needed
(chains, combined PEMs, DH-augmented bundles, text reports), rebuilds the
stale ones, and delivers them to local paths, remote hosts over SSH, or
into containers, reloading dependent services afterwards.`,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on flags (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
		if quiet {
			logger.SetLevel(logger.LevelError)
		}
	})

	if err := rootCmd.Execute(); err != nil {
		logger.LogError(err, "command failed")
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workdir, "workdir", "w", "", "Working directory (default ~/.certinstall)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
}
