package reporting

import (
	"fmt"
	"strings"
	"time"

	"metabolic-lab/internal/insight"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Metabolic Progress Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("As of: %s | Status: %s\n\n", r.AsOf, r.Status))

	// Goal
	sb.WriteString("## Goal\n\n")
	sb.WriteString("| Setting | Value |\n")
	sb.WriteString("|---------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Phase | %s |\n", r.Goal.Phase))
	sb.WriteString(fmt.Sprintf("| Target Rate (units/week) | %+.2f |\n", r.Goal.TargetRate))
	sb.WriteString(fmt.Sprintf("| Protein (g/day) | %.0f |\n", r.Goal.ProteinG))
	sb.WriteString("\n")

	// Estimates
	sb.WriteString("## Expenditure Estimates\n\n")
	if r.Status == insight.StatusReady {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Formula (Mifflin-St Jeor) | %.0f kcal/day |\n", r.Estimates.Formula))
		sb.WriteString(fmt.Sprintf("| Adaptive | %.0f kcal/day |\n", r.Estimates.Adaptive))
		sb.WriteString(fmt.Sprintf("| Divergence | %+.1f%% |\n", r.Estimates.DivergencePct))
		sb.WriteString(fmt.Sprintf("| Average Intake | %.0f kcal/day |\n", r.Estimates.AvgIntake))
		sb.WriteString(fmt.Sprintf("| Mass Change (window) | %+.2f units |\n", r.Estimates.MassChange))
		sb.WriteString("\n")
	} else {
		sb.WriteString(fmt.Sprintf("Collecting data: %d of %d days logged. Using the formula estimate of %.0f kcal/day until the window fills.\n\n",
			r.Progress.DaysLogged, r.Progress.DaysRequired, r.Estimates.Formula))
	}

	// Mass Trend
	sb.WriteString("## Mass Trend\n\n")
	if len(r.Trend) > 0 {
		sb.WriteString("| Day | Scale | Trend | SMA |\n")
		sb.WriteString("|-----|-------|-------|-----|\n")
		for _, p := range r.Trend {
			sma := "-"
			if p.SMA != nil {
				sma = fmt.Sprintf("%.2f", *p.SMA)
			}
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %s |\n", p.Day, p.Raw, p.Smoothed, sma))
		}
		sb.WriteString("\n")
		if r.TrendRate != nil {
			sb.WriteString(fmt.Sprintf("Rate: %+.2f units/week\n\n", *r.TrendRate))
		} else {
			sb.WriteString("Rate: not yet available\n\n")
		}
	} else {
		sb.WriteString("No trend data available.\n\n")
	}

	// Recommendation
	sb.WriteString("## Recommendation\n\n")
	if r.Recommendation != nil {
		rec := r.Recommendation
		sb.WriteString(fmt.Sprintf("Status: %s (%s)\n\n", rec.Status, rec.Tag))
		sb.WriteString(fmt.Sprintf("%s\n\n", rec.Rationale))
		sb.WriteString("| Target | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Previous Calories | %.0f kcal/day |\n", rec.PreviousCalories))
		sb.WriteString(fmt.Sprintf("| Calorie Delta | %+.0f kcal/day |\n", rec.CalorieDelta))
		sb.WriteString(fmt.Sprintf("| Calories | %.0f kcal/day |\n", rec.Targets.Calories))
		sb.WriteString(fmt.Sprintf("| Protein | %.0f g |\n", rec.Targets.ProteinG))
		sb.WriteString(fmt.Sprintf("| Carbs | %.0f g |\n", rec.Targets.CarbsG))
		sb.WriteString(fmt.Sprintf("| Fat | %.0f g |\n", rec.Targets.FatG))
		sb.WriteString("\n")
		if rec.Targets.Capped {
			sb.WriteString("**Carbs floored at zero.** The full calorie reduction could not be applied.\n\n")
		}
	} else {
		sb.WriteString("No recommendation until enough days are logged.\n\n")
	}

	// Expenditure Drift
	sb.WriteString("## Expenditure Drift\n\n")
	if r.Drift != nil {
		d := r.Drift
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Window | %s to %s |\n", d.From, d.To))
		sb.WriteString(fmt.Sprintf("| Snapshots | %d |\n", d.Snapshots))
		sb.WriteString(fmt.Sprintf("| First Estimate | %.0f kcal/day |\n", d.First))
		sb.WriteString(fmt.Sprintf("| Last Estimate | %.0f kcal/day |\n", d.Last))
		sb.WriteString(fmt.Sprintf("| Change | %+.0f kcal/day |\n", d.Change))
		sb.WriteString(fmt.Sprintf("| Per Week | %+.1f kcal |\n", d.PerWeek))
		sb.WriteString(fmt.Sprintf("| Direction | %s |\n", d.Direction))
		sb.WriteString("\n")
	} else {
		sb.WriteString("No snapshot history available.\n")
	}

	return sb.String()
}
