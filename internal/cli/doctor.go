package cli

import (
	"os"
	"strconv"

	"github.com/ksyq12/certinstall/internal/config"
	"github.com/ksyq12/certinstall/internal/executor"
	"github.com/ksyq12/certinstall/internal/output"
	"github.com/ksyq12/certinstall/internal/plan"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the system and certinstall configuration.

Checks:
  - Required binaries (getssl, openssl)
  - Delivery binaries (ssh, scp, docker), when domains use them
  - Working directory and per-domain configuration validity
  - Source artifact presence per domain

Examples:
  certinstall doctor
  certinstall doctor --json`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DomainStatus represents the status of a single domain
type DomainStatus struct {
	Domain string        `json:"domain"`
	Checks []CheckResult `json:"checks"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	SystemRequirements []CheckResult  `json:"system_requirements"`
	Domains            []DomainStatus `json:"domains"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	exec := executor.NewSystemExecutor()

	dir, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report := &DoctorReport{}
	report.SystemRequirements = checkSystemRequirements(exec, cfg)
	report.Domains = checkDomains(dir)

	if jsonOutput {
		return output.JSON(report)
	}

	displayDoctorResults(report)
	return nil
}

func checkSystemRequirements(exec executor.CommandExecutor, cfg *config.Config) []CheckResult {
	results := []CheckResult{}

	binaries := []struct {
		name     string
		binary   string
		optional bool
	}{
		{"getssl", cfg.GetsslPath, false},
		{"openssl", cfg.OpensslPath, false},
		{"ssh", "ssh", true},
		{"scp", "scp", true},
		{"docker", "docker", true},
	}

	for _, b := range binaries {
		if path, err := exec.LookPath(b.binary); err == nil {
			results = append(results, CheckResult{Status: "success", Message: b.name + " found at " + path})
		} else if b.optional {
			results = append(results, CheckResult{Status: "warning", Message: b.name + " not found (needed only for " + b.name + " delivery targets)"})
		} else {
			results = append(results, CheckResult{Status: "error", Message: b.name + " not found"})
		}
	}

	if cfg.ChallengeDir != "" {
		if _, err := os.Stat(cfg.ChallengeDir); err != nil {
			results = append(results, CheckResult{Status: "error", Message: "challenge directory missing: " + cfg.ChallengeDir})
		} else {
			results = append(results, CheckResult{Status: "success", Message: "challenge directory present: " + cfg.ChallengeDir})
		}
	}

	return results
}

// checkDomains loads every domain config and derives its plan, reporting
// configuration and precondition problems without building anything.
func checkDomains(dir string) []DomainStatus {
	var statuses []DomainStatus

	domains, err := config.ListDomains(dir)
	if err != nil {
		return []DomainStatus{{Domain: "-", Checks: []CheckResult{{Status: "error", Message: err.Error()}}}}
	}

	for _, name := range domains {
		st := DomainStatus{Domain: name}

		dom, err := config.LoadDomain(dir, name)
		if err != nil {
			st.Checks = append(st.Checks, CheckResult{Status: "error", Message: err.Error()})
			statuses = append(statuses, st)
			continue
		}
		st.Checks = append(st.Checks, CheckResult{Status: "success", Message: "configuration valid"})

		layout := config.DomainLayout(dir, name)
		if p, err := plan.Build(dom, layout, plan.Options{}); err != nil {
			st.Checks = append(st.Checks, CheckResult{Status: "error", Message: err.Error()})
		} else {
			st.Checks = append(st.Checks, CheckResult{Status: "success",
				Message: "plan valid: " + planSummary(p)})
		}
		statuses = append(statuses, st)
	}
	return statuses
}

func planSummary(p *plan.Plan) string {
	if n := p.BuildCount(); n > 0 {
		return strconv.Itoa(n) + " stale artifacts"
	}
	return "everything up to date"
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("System requirements:")
	for _, c := range report.SystemRequirements {
		output.Check(c.Status, c.Message)
	}

	if len(report.Domains) == 0 {
		output.Print("")
		output.Info("no domains configured")
		return
	}

	for _, d := range report.Domains {
		output.Print("")
		output.Print("Domain %s:", d.Domain)
		for _, c := range d.Checks {
			output.Check(c.Status, c.Message)
		}
	}
}
