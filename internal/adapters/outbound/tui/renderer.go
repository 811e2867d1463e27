package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twmigrate/twmigrate/internal/domain"
)

// ── warm amber palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	infoStyle     = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	stepIDStyle   = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderPlan renders a proposed migration plan for the terminal.
func RenderPlan(plan *domain.MigrationPlan) string {
	var b strings.Builder

	title := headerStyle.Render("twmigrate")
	subtitle := dimStyle.Render("Migration Plan")
	countLine := lipgloss.NewStyle().Bold(true).Foreground(accent).
		Render(fmt.Sprintf("%d steps", len(plan.Steps)))
	strategyLine := dimStyle.Render(fmt.Sprintf("strategy: %s", plan.Strategy))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + countLine + "  " + strategyLine))
	b.WriteString("\n\n")

	for _, step := range plan.Steps {
		b.WriteString("  ")
		b.WriteString(stepIDStyle.Render(step.ID))
		b.WriteString("  ")
		b.WriteString(severityTag(step.Severity))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s:%d", step.File, step.Line)))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (%.2f)", step.Confidence)))
		b.WriteString("\n")
		b.WriteString("    ")
		b.WriteString(failStyle.Render("- " + step.Preview.Before))
		b.WriteString("\n")
		if step.Preview.After != "" {
			b.WriteString("    ")
			b.WriteString(passStyle.Render("+ " + step.Preview.After))
			b.WriteString("\n")
		}
		if len(step.DependsOn) > 0 {
			b.WriteString("    ")
			b.WriteString(faintStyle.Render("needs " + strings.Join(step.DependsOn, ", ")))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n  " + separatorLine + "\n\n")
	s := plan.Summary
	b.WriteString(fmt.Sprintf("  %s  %d of %d violations addressable, %d files\n",
		titleStyle.Render("Summary"), s.AddressableViolations, s.TotalViolations, s.FilesAffected))

	return b.String()
}

// RenderReport renders the outcome of a migrate run.
func RenderReport(report *domain.MigrationReport) string {
	var b strings.Builder

	title := headerStyle.Render("twmigrate")
	mode := "Preview"
	if report.Applied {
		mode = "Migration"
	}
	subtitle := dimStyle.Render(mode + " Report")
	counts := fmt.Sprintf("%s  %s  %s",
		passStyle.Render(fmt.Sprintf("%d applied", report.AppliedCount)),
		warnStyle.Render(fmt.Sprintf("%d skipped", report.SkippedCount)),
		failStyle.Render(fmt.Sprintf("%d failed", report.FailedCount)))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + counts))
	b.WriteString("\n\n")

	for _, res := range report.Results {
		b.WriteString("  ")
		b.WriteString(statusTag(res.Status))
		b.WriteString("  ")
		b.WriteString(stepIDStyle.Render(res.StepID))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(res.Action))
		b.WriteString("\n")
		if res.Error != "" {
			b.WriteString("      ")
			b.WriteString(failStyle.Render(res.Error))
			b.WriteString("\n")
		}
	}

	if len(report.FilesChanged) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Files changed") + "\n")
		for _, f := range report.FilesChanged {
			line := f
			if stat, ok := report.DiffByFile[f]; ok {
				line = fmt.Sprintf("%s  (-%d +%d)", f, stat.Removed, stat.Added)
			}
			b.WriteString("    " + dimStyle.Render(line) + "\n")
		}
	}

	for _, d := range report.Diagnostics {
		b.WriteString("\n  " + warnStyle.Render("warning: "+d))
	}
	for _, n := range report.NextSteps {
		b.WriteString("\n  " + infoStyle.Render(n))
	}
	if len(report.Diagnostics)+len(report.NextSteps) > 0 {
		b.WriteString("\n")
	}

	return b.String()
}

func severityTag(severity string) string {
	switch severity {
	case domain.SeverityError:
		return failStyle.Render("error")
	case domain.SeverityWarn:
		return warnStyle.Render("warn ")
	default:
		return infoStyle.Render("info ")
	}
}

func statusTag(status string) string {
	switch status {
	case domain.StatusApplied:
		return passStyle.Render("applied")
	case domain.StatusFailed:
		return failStyle.Render("failed ")
	case domain.StatusSkipped:
		return warnStyle.Render("skipped")
	default:
		return infoStyle.Render("pending")
	}
}
