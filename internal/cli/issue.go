package cli

import (
	"fmt"

	"github.com/ksyq12/certinstall/internal/acme"
	"github.com/ksyq12/certinstall/internal/output"
	"github.com/spf13/cobra"
)

var issueAll bool

var issueCmd = &cobra.Command{
	Use:   "issue [domain]",
	Short: "Run getssl to obtain or renew certificates",
	Long: `Invoke the getssl ACME client for a domain (or all domains), opening the
shared challenge directory for writing while it runs. When acme_user is
configured, getssl runs as that user via sudo.

This only obtains certificate material; follow with 'certinstall install'
to distribute it.

Examples:
  certinstall issue example.com
  certinstall issue --all`,
	RunE: runIssue,
}

func init() {
	issueCmd.Flags().BoolVarP(&issueAll, "all", "a", false, "Issue/renew all configured domains")

	rootCmd.AddCommand(issueCmd)
}

func runIssue(cmd *cobra.Command, args []string) error {
	dir, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := acme.NewClient(cfg.GetsslPath, dir, cfg.ACMEUser)
	if !client.IsInstalled() {
		return fmt.Errorf("getssl is not installed (looked for %q)", cfg.GetsslPath)
	}

	if issueAll {
		output.Info("running getssl for all domains...")
		err = acme.WithOpenChallengeDir(cfg.ChallengeDir, client.IssueAll)
		if err != nil {
			return err
		}
		return outputResult(map[string]interface{}{"success": true, "issued": "all"},
			"getssl completed for all domains")
	}

	if len(args) != 1 {
		return fmt.Errorf("specify a domain or use --all")
	}
	domain := args[0]
	if err := validateDomain(domain); err != nil {
		return err
	}

	output.Info("running getssl for %s...", domain)
	err = acme.WithOpenChallengeDir(cfg.ChallengeDir, func() error {
		return client.Issue(domain)
	})
	if err != nil {
		return err
	}

	return outputResult(map[string]interface{}{"success": true, "domain": domain},
		"getssl completed for %s", domain)
}
