// Package render produces Markdown and terminal output from a scoring report.
package render

import (
	"fmt"
	"strings"

	"github.com/dshills/riskscore/internal/report"
	"github.com/dshills/riskscore/internal/session"
)

// Markdown renders a report as a Markdown document.
func Markdown(r *report.Report) string {
	var b strings.Builder
	s := r.Summary

	b.WriteString("# Risk Assessment\n\n")
	fmt.Fprintf(&b, "**Survey:** %s (policy %s)\n", r.Input.Survey, r.Input.Policy)
	fmt.Fprintf(&b, "**Level:** %s, %s\n", s.LevelLabel, s.Description)
	fmt.Fprintf(&b, "**Total:** %s\n\n", formatNumber(s.Total))

	b.WriteString("| Category | Score | Maximum |\n")
	b.WriteString("|---|---|---|\n")
	fmt.Fprintf(&b, "| Raw risk | %s | %s |\n", formatNumber(s.RawRisk.Actual), formatNumber(s.RawRisk.Max))
	fmt.Fprintf(&b, "| Mitigation | %s | %s |\n\n", formatNumber(s.Mitigation.Actual), formatNumber(s.Mitigation.Max))

	if s.Mitigated {
		b.WriteString("Mitigation threshold met; raw risk reduced.\n\n")
	}

	writeSection(&b, "Project Details", r.Sections.Project)
	writeSection(&b, "Risk Answers", r.Sections.RawRisk)
	writeSection(&b, "Mitigation Answers", r.Sections.Mitigation)
	writeSection(&b, "Mitigation Measures in Place", r.Sections.MitigationPositive)

	if r.Input.AnswersFile != "" {
		b.WriteString("## Input\n\n")
		fmt.Fprintf(&b, "- %s (%s)\n", r.Input.AnswersFile, r.Input.AnswersHash)
		fmt.Fprintf(&b, "- survey %s\n\n", r.Input.SurveyHash)
	}

	return b.String()
}

func writeSection(b *strings.Builder, title string, recs []session.AnswerRecord) {
	if len(recs) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, rec := range recs {
		fmt.Fprintf(b, "- **%s:** %s\n", rec.Title, rec.DisplayValue)
	}
	b.WriteString("\n")
}

func formatNumber(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
