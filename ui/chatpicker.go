package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattn/go-runewidth"
)

func (a AppView) renderChatPicker() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Chats"))
	b.WriteString("\n\n")

	if a.newChatMode {
		b.WriteString("Create a new chat\n\n")
		b.WriteString(a.newChatInput.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render(FormatFooter("Enter", "Create", "Esc", "Cancel")))
		return a.placePicker(b.String())
	}

	if a.renameMode {
		b.WriteString("Rename chat\n\n")
		b.WriteString(a.renameInput.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render(FormatFooter("Enter", "Save", "Esc", "Cancel")))
		return a.placePicker(b.String())
	}

	if a.confirmDelete != nil {
		title := runewidth.Truncate(a.confirmDelete.Title, 40, "…")
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Delete %q?", title)))
		b.WriteString("\n\nThe conversation is removed from the server.\n\n")
		b.WriteString(HelpStyle.Render(FormatFooter("y", "Delete", "n/Esc", "Keep")))
		return a.placePicker(b.String())
	}

	if a.filterMode {
		b.WriteString(a.filterInput.View())
		b.WriteString("\n\n")
	}

	list := a.chatList()
	if len(list) == 0 {
		b.WriteString(DimStyle.Render("No chats yet. Press n to start one."))
		b.WriteString("\n")
	}

	currentID := int64(0)
	if a.dataModel.Current != nil {
		currentID = a.dataModel.Current.ID
	}

	for i, chat := range list {
		title := runewidth.Truncate(chat.Title, 48, "…")
		line := fmt.Sprintf("%-50s %s", title, DimStyle.Render(formatTimeAgo(chat.UpdatedAt)))

		marker := "  "
		if chat.ID == currentID {
			marker = DimStyle.Render("* ")
		}

		if i == a.selectedChatIdx {
			b.WriteString(SelectedStyle.Render("> " + line))
		} else {
			b.WriteString(marker + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(FormatFooter(
		"j/k", "Navigate",
		"Enter", "Open",
		"n", "New",
		"r", "Rename",
		"d", "Delete",
		"/", "Filter",
		"Esc", "Back",
	)))

	return a.placePicker(b.String())
}

func (a AppView) placePicker(content string) string {
	if a.width == 0 {
		return content
	}
	box := lipgloss.NewStyle().Padding(1, 2)
	return box.Render(content)
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
