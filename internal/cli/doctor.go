package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"sdklocator/internal/config"
	"sdklocator/internal/paths"
	"sdklocator/internal/sdk"
	"sdklocator/internal/tui"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, preference store and toolchain installs",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	pp, cfg, cfgErr := loadConfig(cmd)
	if cfgErr != nil && pp.Root == "" {
		return cfgErr
	}

	var checks []healthCheck
	checks = append(checks, checkConfig(pp, cfg, cfgErr))
	if cfgErr != nil || config.HasErrors(cfg.Validate()) {
		// Can't open the store without a usable config
		return writeDoctorResult(cmd, pp.Root, checks)
	}

	sess, err := openSession(cmd)
	if err != nil {
		checks = append(checks, healthCheck{Name: "Store", Status: "error", Summary: err.Error()})
		return writeDoctorResult(cmd, pp.Root, checks)
	}
	defer sess.Close()

	checks = append(checks, checkStore(sess))
	for _, kind := range sdk.Kinds() {
		checks = append(checks, checkKind(sess, kind))
	}

	return writeDoctorResult(cmd, pp.Root, checks)
}

func checkConfig(pp paths.AppPaths, cfg config.Config, cfgErr error) healthCheck {
	if cfgErr != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: cfgErr.Error()}
	}

	validations := cfg.Validate()
	var warnings, errors int
	var first string
	for _, v := range validations {
		switch v.Level {
		case "warning":
			warnings++
		case "error":
			errors++
		}
		if first == "" {
			first = v.Message
		}
	}

	exists, _ := paths.FileExists(pp.ConfigFile)
	summary := "defaults (no config.yaml)"
	if exists {
		summary = pp.ConfigFile
	}

	if errors > 0 {
		return healthCheck{Name: "Config", Status: "error", Summary: fmt.Sprintf("%d errors; %s", errors, first)}
	}
	if warnings > 0 {
		return healthCheck{Name: "Config", Status: "warning", Summary: fmt.Sprintf("%s; %s", summary, first)}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: summary}
}

func checkStore(sess *session) healthCheck {
	var set []string
	for _, kind := range sdk.Kinds() {
		v, err := sess.resolver.UserOverride(kind)
		if err != nil {
			return healthCheck{Name: "Store", Status: "error", Summary: err.Error()}
		}
		if v != "" {
			set = append(set, kind.String())
		}
	}

	summary := fmt.Sprintf("%s backend, key %s", sess.cfg.Store.Backend, sess.resolver.OverrideKey())
	if len(set) > 0 {
		summary += "; overrides: " + joinComma(set)
	}
	return healthCheck{Name: "Store", Status: "ok", Summary: summary}
}

func checkKind(sess *session, kind sdk.Kind) healthCheck {
	name := displayName(kind)
	rep, err := sess.resolver.Report(kind, 0)
	if err != nil {
		return healthCheck{Name: name, Status: "error", Summary: err.Error()}
	}

	if rep.Preferred == "" {
		return healthCheck{Name: name, Status: "warning", Summary: "no valid installation found"}
	}

	summary := rep.Preferred
	if n := len(rep.Candidates); n > 1 {
		summary += fmt.Sprintf(" (+%d more)", n-1)
	}
	if rep.Override != "" && !rep.OverrideValid {
		return healthCheck{Name: name, Status: "warning", Summary: fmt.Sprintf("override %s is not valid; using %s", rep.Override, summary)}
	}
	return healthCheck{Name: name, Status: "ok", Summary: summary}
}

func writeDoctorResult(cmd *cobra.Command, root string, checks []healthCheck) error {
	if outputJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("SDKLOCATOR HEALTH:")+" "+root)

	width := 0
	for _, c := range checks {
		width = max(width, len(c.Name)+1)
	}
	for _, c := range checks {
		var label string
		switch c.Status {
		case "ok":
			label = "OK"
		case "warning":
			label = "WARN"
		case "error":
			label = "ERROR"
		}
		statusStr := tui.StatusStyle(c.Status).Inline(true).Render(label)
		fmt.Fprintf(out, "  %-*s %s    %s\n", width, c.Name+":", statusStr, c.Summary)
	}

	return nil
}

func joinComma(items []string) string {
	return strings.Join(items, ", ")
}
