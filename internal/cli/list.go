package cli

import (
	"strconv"

	"github.com/ksyq12/certinstall/internal/config"
	"github.com/ksyq12/certinstall/internal/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured domains",
	Long: `List the domains configured under the working directory with the number
of declared install locations and their reload command.

Examples:
  certinstall list
  certinstall list --json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// domainSummary is the JSON shape for one configured domain
type domainSummary struct {
	Domain    string `json:"domain"`
	Locations int    `json:"locations"`
	ReloadCmd string `json:"reload_cmd,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	dir, _, err := loadConfig()
	if err != nil {
		return err
	}

	domains, err := config.ListDomains(dir)
	if err != nil {
		return err
	}

	summaries := make([]domainSummary, 0, len(domains))
	for _, name := range domains {
		dom, err := config.LoadDomain(dir, name)
		if err != nil {
			output.Warn("%s: %v", name, err)
			continue
		}
		summaries = append(summaries, domainSummary{
			Domain:    name,
			Locations: len(dom.Locations),
			ReloadCmd: dom.ReloadCmd,
		})
	}

	if jsonOutput {
		return output.JSON(summaries)
	}

	if len(summaries) == 0 {
		output.Info("no domains configured under %s", dir)
		return nil
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		reload := s.ReloadCmd
		if reload == "" {
			reload = "-"
		}
		rows = append(rows, []string{s.Domain, strconv.Itoa(s.Locations), reload})
	}
	output.Table([]string{"DOMAIN", "LOCATIONS", "RELOAD"}, rows)
	return nil
}
