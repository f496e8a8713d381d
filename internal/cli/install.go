package cli

import (
	"fmt"

	"github.com/ksyq12/certinstall/internal/install"
	"github.com/ksyq12/certinstall/internal/output"
	"github.com/spf13/cobra"
)

var (
	installAll   bool
	installForce bool
	installText  bool
)

var installCmd = &cobra.Command{
	Use:   "install [domain]",
	Short: "Build and install certificate artifacts",
	Long: `Build the stale certificate artifacts for a domain and install them
to their configured locations (local paths, ssh:host:path, or
docker:container:path).

Artifacts are rebuilt only when missing or older than their sources;
--force rebuilds everything and skips the reload command.

Examples:
  certinstall install example.com
  certinstall install --force example.com
  certinstall install --all
  certinstall install -t example.com    # include text reports`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVarP(&installAll, "all", "a", false, "Install all configured domains")
	installCmd.Flags().BoolVarP(&installForce, "force", "f", false, "Rebuild everything; skip the reload command")
	installCmd.Flags().BoolVarP(&installText, "text", "t", false, "Also build the text report artifacts")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	dir, cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := install.Options{Force: installForce, WithText: installText}
	installer := install.New(dir, cfg)

	if installAll {
		return runInstallAll(installer, opts)
	}

	if len(args) != 1 {
		return fmt.Errorf("specify a domain or use --all")
	}
	domain := args[0]
	if err := validateDomain(domain); err != nil {
		return err
	}

	res, err := installer.Domain(domain, opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(res)
	}
	if res.Built == 0 {
		output.Info("%s: all %d artifacts up to date", domain, res.Planned)
		return nil
	}
	output.Success("%s: installed %d of %d artifacts", domain, res.Built, res.Planned)
	if res.Reload {
		output.Info("reload command completed")
	}
	return nil
}

func runInstallAll(installer *install.Installer, opts install.Options) error {
	results, err := installer.All(opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		type entry struct {
			Domain string          `json:"domain"`
			Error  string          `json:"error,omitempty"`
			Result *install.Result `json:"result,omitempty"`
		}
		entries := make([]entry, 0, len(results))
		for _, r := range results {
			e := entry{Domain: r.Domain, Result: r.Result}
			if r.Err != nil {
				e.Error = r.Err.Error()
			}
			entries = append(entries, e)
		}
		if err := output.JSON(entries); err != nil {
			return err
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			if !jsonOutput {
				output.Error("%s: %v", r.Domain, r.Err)
			}
			continue
		}
		if !jsonOutput {
			if r.Result.Built == 0 {
				output.Info("%s: up to date", r.Domain)
			} else {
				output.Success("%s: installed %d of %d artifacts", r.Domain, r.Result.Built, r.Result.Planned)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d domains failed", failed, len(results))
	}
	return nil
}
