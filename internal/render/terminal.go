package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dshills/riskscore/internal/report"
	"github.com/dshills/riskscore/internal/scoring"
	"github.com/dshills/riskscore/internal/session"
)

var levelColors = map[scoring.Level]lipgloss.Color{
	scoring.LevelI:   lipgloss.Color("#2CD7C7"),
	scoring.LevelII:  lipgloss.Color("#F4D03F"),
	scoring.LevelIII: lipgloss.Color("#E67E22"),
	scoring.LevelIV:  lipgloss.Color("#E74C3C"),
}

// Terminal writes a styled summary of the report to w. Colors are only
// emitted when w is a terminal that supports them.
func Terminal(w io.Writer, r *report.Report) error {
	re := lipgloss.NewRenderer(w)
	title := re.NewStyle().Bold(true)
	muted := re.NewStyle().Foreground(lipgloss.Color("#2C4A54"))
	label := re.NewStyle().Width(14)
	box := re.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#16858E")).
		Padding(0, 1)

	levelStyle := re.NewStyle().Bold(true)
	if c, ok := levelColors[r.Summary.Level]; ok {
		levelStyle = levelStyle.Foreground(c)
	}

	s := r.Summary
	rows := []string{
		title.Render("Risk Assessment: " + r.Input.Survey),
		label.Render("Level") + levelStyle.Render(s.LevelLabel) + muted.Render("  "+s.Description),
		label.Render("Total") + formatNumber(s.Total),
		label.Render("Raw risk") + scoreBar(s.RawRisk),
		label.Render("Mitigation") + scoreBar(s.Mitigation),
	}
	if s.Mitigated {
		rows = append(rows, muted.Render("Mitigation threshold met"))
	}

	var b strings.Builder
	b.WriteString(box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n")

	writeTerminalSection(&b, title, "Project details", r.Sections.Project)
	writeTerminalSection(&b, title, "Risk answers", r.Sections.RawRisk)
	writeTerminalSection(&b, title, "Mitigation in place", r.Sections.MitigationPositive)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("render.Terminal: %w", err)
	}
	return nil
}

func writeTerminalSection(b *strings.Builder, title lipgloss.Style, name string, recs []session.AnswerRecord) {
	if len(recs) == 0 {
		return
	}
	b.WriteString("\n" + title.Render(name) + "\n")
	for _, rec := range recs {
		fmt.Fprintf(b, "  %s: %s\n", rec.Title, rec.DisplayValue)
	}
}

func scoreBar(sc scoring.Score) string {
	const width = 20
	filled := 0
	if sc.Max > 0 {
		filled = int(sc.Actual / sc.Max * width)
	}
	filled = min(max(filled, 0), width)
	return fmt.Sprintf("%s%s %s/%s",
		strings.Repeat("█", filled), strings.Repeat("░", width-filled),
		formatNumber(sc.Actual), formatNumber(sc.Max))
}
