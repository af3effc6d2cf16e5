package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func (a AppView) renderMemories() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Memories: " + a.dataModel.User.Email))
	b.WriteString("\n\n")

	if a.memAddMode {
		b.WriteString("Add a memory\n\n")
		for i := range a.memInputs {
			b.WriteString(a.memInputs[i].View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render(FormatFooter("Enter", "Save", "Tab", "Next field", "Esc", "Cancel")))
		return a.placePicker(b.String())
	}

	if len(a.memories) == 0 {
		b.WriteString(DimStyle.Render("Nothing remembered yet. The assistant extracts memories\nfrom conversations; press a to add one manually."))
		b.WriteString("\n")
	}

	for i, mem := range a.memories {
		line := fmt.Sprintf("%-12s %-24s %s",
			DimStyle.Render(mem.Category),
			runewidth.Truncate(mem.Key, 24, "…"),
			runewidth.Truncate(mem.Value, 60, "…"),
		)
		if mem.Confidence > 0 {
			line += DimStyle.Render(fmt.Sprintf("  (%.0f%%)", mem.Confidence*100))
		}

		if i == a.selectedMemIdx {
			b.WriteString(SelectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(FormatFooter(
		"j/k", "Navigate",
		"a", "Add",
		"d", "Delete",
		"r", "Refresh",
		"Esc", "Back",
	)))

	box := lipgloss.NewStyle().Padding(1, 2)
	return box.Render(b.String())
}
