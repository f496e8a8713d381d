package cli

import (
	"github.com/ksyq12/certinstall/internal/config"
	"github.com/ksyq12/certinstall/internal/output"
	"github.com/ksyq12/certinstall/internal/plan"
	"github.com/spf13/cobra"
)

var (
	planForce bool
	planText  bool
)

var planCmd = &cobra.Command{
	Use:   "plan <domain>",
	Short: "Show the build plan without installing anything",
	Long: `Derive and print the build plan for a domain: which artifacts would be
rebuilt, from what, and where they would be delivered. Nothing is built.

Examples:
  certinstall plan example.com
  certinstall plan --force example.com
  certinstall plan --json example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVarP(&planForce, "force", "f", false, "Plan as if --force were given")
	planCmd.Flags().BoolVarP(&planText, "text", "t", false, "Include the text report artifacts")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	domain := args[0]
	if err := validateDomain(domain); err != nil {
		return err
	}

	dir, _, err := loadConfig()
	if err != nil {
		return err
	}

	dom, err := config.LoadDomain(dir, domain)
	if err != nil {
		return err
	}
	layout := config.DomainLayout(dir, domain)

	p, err := plan.Build(dom, layout, plan.Options{Force: planForce, WithText: planText})
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(p)
	}

	output.PlanTable(p)
	return nil
}
