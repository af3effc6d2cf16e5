package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	kb := a.keys

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("SCTUI - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	globalActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global Actions"),
		fmt.Sprintf("• %-13s New chat", kb.DisplayActionKey("new_chat")),
		fmt.Sprintf("• %-13s Chat picker", kb.DisplayActionKey("chat_picker")),
		fmt.Sprintf("• %-13s Search chats", kb.DisplayActionKey("search_chats")),
		fmt.Sprintf("• %-13s Rename current chat", kb.DisplayActionKey("rename_chat")),
		fmt.Sprintf("• %-13s Analytics dashboard", kb.DisplayActionKey("dashboard")),
		fmt.Sprintf("• %-13s Memories", kb.DisplayActionKey("memories")),
		fmt.Sprintf("• %-13s Toggle this help", kb.DisplayActionKey("help")),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey("quit")),
	)

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat Actions"),
		"• Enter         Send message",
		"• Alt+Enter     Insert newline",
		"• Esc           Cancel streaming reply",
		fmt.Sprintf("• %-13s Toggle arena mode", kb.DisplayActionKey("arena_toggle")),
		fmt.Sprintf("• %-13s Copy last reply", kb.DisplayActionKey("yank_reply")),
	)

	arenaActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Arena Voting"),
		"• 1             Left reply is better",
		"• 2             Right reply is better",
		"• 3             Tie",
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Navigation"),
		fmt.Sprintf("• %-13s Scroll down", kb.DisplayActionKey("scroll_down")),
		fmt.Sprintf("• %-13s Scroll up", kb.DisplayActionKey("scroll_up")),
		fmt.Sprintf("• %-13s Jump to top", kb.DisplayActionKey("scroll_to_top")),
		fmt.Sprintf("• %-13s Jump to bottom", kb.DisplayActionKey("scroll_to_bottom")),
	)

	column1 := lipgloss.JoinVertical(
		lipgloss.Left,
		globalActions,
		"",
		arenaActions,
	)

	column2 := lipgloss.JoinVertical(
		lipgloss.Left,
		chatActions,
		"",
		navigation,
	)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"    ",
		columnStyle.Render(column2),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("      Press %s or Esc to close this help", kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2).
		Width(96)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
