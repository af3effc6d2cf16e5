package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderDashboard() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Analytics"))
	b.WriteString("\n\n")

	if a.metricsErr != nil {
		b.WriteString(ErrorStyle.Render("Failed to load metrics: " + a.metricsErr.Error()))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render(FormatFooter("r", "Retry", "Esc", "Back")))
		return a.placePicker(b.String())
	}

	recent := a.metrics.Recent
	b.WriteString(AssistantStyle.Render("## Recent activity"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Messages total:   %d\n", recent.TotalMessages))
	b.WriteString(fmt.Sprintf("Avg latency:      %.2fs (last %d)\n", recent.RecentAvgLatency, recent.SampleSize))
	b.WriteString(fmt.Sprintf("Masked messages:  %d\n", recent.RecentMaskedCount))
	b.WriteString("\n")

	if g := a.metrics.Global; g != nil {
		b.WriteString(AssistantStyle.Render("## Global (admin)"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Users:            %d\n", g.TotalUsers))
		b.WriteString(fmt.Sprintf("Messages:         %d\n", g.TotalMessages))
		b.WriteString(fmt.Sprintf("Masked:           %d\n", g.MaskedMessages))
		b.WriteString(fmt.Sprintf("Tokens:           %d\n", g.TotalTokens))
		if len(g.ModelUsage) > 0 {
			b.WriteString("\nModel usage:\n")
			b.WriteString(renderModelUsage(g.ModelUsage))
		}
		b.WriteString("\n")
	}

	if len(a.metrics.Leaderboard) > 0 {
		b.WriteString(AssistantStyle.Render("## Arena leaderboard"))
		b.WriteString("\n")
		header := fmt.Sprintf("%-28s %6s %6s %6s %6s", "Model", "Votes", "Wins", "Losses", "Ties")
		b.WriteString(DimStyle.Render(header))
		b.WriteString("\n")
		for _, e := range a.metrics.Leaderboard {
			b.WriteString(fmt.Sprintf("%-28s %6d %6d %6d %6d\n",
				e.Model, e.Votes, e.Wins, e.Losses, e.Ties))
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(FormatFooter("r", "Refresh", "Esc", "Back")))

	box := lipgloss.NewStyle().Padding(1, 2)
	return box.Render(b.String())
}

// renderModelUsage prints usage counts with a proportional bar, busiest first.
func renderModelUsage(usage map[string]int) string {
	type row struct {
		model string
		count int
	}
	rows := make([]row, 0, len(usage))
	max := 0
	for m, c := range usage {
		rows = append(rows, row{m, c})
		if c > max {
			max = c
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].model < rows[j].model
	})

	var b strings.Builder
	for _, r := range rows {
		barLen := 0
		if max > 0 {
			barLen = r.count * 20 / max
		}
		bar := AssistantStyle.Render(strings.Repeat("█", barLen))
		b.WriteString(fmt.Sprintf("  %-28s %5d %s\n", r.model, r.count, bar))
	}
	return b.String()
}
