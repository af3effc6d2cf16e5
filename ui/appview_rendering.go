package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	"sctui/config"
	appmodel "sctui/model"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

func (a AppView) renderChatView() string {
	title := "No chat open"
	if a.dataModel.Current != nil {
		title = a.dataModel.Current.Title
	}
	if a.dataModel.ArenaMode {
		title += DimStyle.Render("  [arena]")
	}

	header := TitleStyle.Render(title)

	statusLine := ""
	if a.status != "" {
		statusLine = StatusStyle.Render(a.status)
	}

	footer := HelpStyle.Render(FormatFooter(
		"Enter", "Send",
		a.keys.DisplayActionKey("chat_picker"), "Chats",
		a.keys.DisplayActionKey("arena_toggle"), "Arena",
		a.keys.DisplayActionKey("help"), "Help",
	))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		a.viewport.View(),
		a.textarea.View(),
		statusLine,
		footer,
	)
}

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if a.dataModel.Current == nil || len(a.dataModel.Current.Messages) == 0 {
		a.viewport.SetContent("No messages yet. Start chatting!")
		return
	}

	items := appmodel.BuildRenderList(a.dataModel.Current.Messages)

	var content strings.Builder
	for _, item := range items {
		if item.Pair {
			content.WriteString(a.renderArenaPair(item))
			continue
		}
		content.WriteString(a.renderSingleMessage(item))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a *AppView) renderSingleMessage(item appmodel.RenderItem) string {
	msg := item.Left
	timestamp := DimStyle.Render(msg.CreatedAt.Format("[15:04]"))

	var roleStyle = DimStyle
	var roleName string
	switch msg.Role {
	case appmodel.RoleUser:
		roleStyle = UserStyle
		roleName = "You"
	case appmodel.RoleAssistant:
		roleStyle = AssistantStyle
		roleName = "Assistant"
		if msg.Meta.Model != "" {
			roleName = "Assistant (" + msg.Meta.Model + ")"
		}
	default:
		roleName = "System"
	}
	role := roleStyle.Render(roleName)

	body := msg.Rendered
	if body == "" {
		body = msg.Content
	}

	// The empty streaming placeholder shows the spinner until content lands,
	// then the accumulating text with a cursor.
	if msg.Role == appmodel.RoleAssistant && msg.IsLocal() {
		if msg.Content == "" {
			body = a.loadingSpinner.View()
		} else {
			body = msg.Content + "▋"
		}
	}

	if msg.Role == appmodel.RoleUser {
		return formatUserMessage(timestamp, role, body, item.Grouped)
	}

	// Grouped messages suppress the header line
	if item.Grouped {
		return fmt.Sprintf("%s\n\n", body)
	}
	return fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, body)
}

// renderArenaPair lays the two replies of a comparison side by side, with
// the vote state underneath.
func (a *AppView) renderArenaPair(item appmodel.RenderItem) string {
	paneWidth := (a.width - 8) / 2
	if paneWidth < 20 {
		paneWidth = 20
	}

	left := a.renderArenaPane(item.Left, paneWidth)
	right := a.renderArenaPane(item.Right, paneWidth)

	pair := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	var verdict string
	if a.dataModel.CanVote(item.ComparisonID()) {
		verdict = HelpStyle.Render(FormatFooter("1", "Left", "2", "Right", "3", "Tie"))
	} else {
		verdict = VotedStyle.Render("✓ voted")
	}

	timestamp := DimStyle.Render(item.Left.CreatedAt.Format("[15:04]"))

	return fmt.Sprintf("%s %s\n%s\n%s\n\n",
		timestamp, arenaLabelStyle.Render("Comparison"), pair, verdict)
}

func (a *AppView) renderArenaPane(msg appmodel.ChatMessage, width int) string {
	label := msg.Meta.Model
	if label == "" {
		label = "unknown"
	}
	label = runewidth.Truncate(label, width-4, "…")

	body := msg.Rendered
	if body == "" {
		body = msg.Content
	}

	pane := lipgloss.JoinVertical(
		lipgloss.Left,
		arenaLabelStyle.Render(label),
		body,
	)

	return arenaPaneStyle.Width(width).Render(pane)
}

func formatUserMessage(timestamp, role, content string, grouped bool) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	lines := strings.Split(content, "\n")

	var result strings.Builder
	if !grouped {
		result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	}

	for _, line := range lines {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}

	result.WriteString("\n")

	return result.String()
}

func postProcessMarkdown(rendered string, width int) string {
	// 1. Fix inline code: Blue background → Red text
	rendered = fixInlineCode(rendered)

	// 2. Color plain URLs red (autolink disabled keeps URLs plain)
	rendered = fixMarkdownLinks(rendered)

	// 3. Frame code blocks with horizontal lines
	rendered = frameCodeBlocks(rendered, width)

	return rendered
}

func preprocessLinks(content string) string {
	// Strip markdown link syntax [text](url) → just url
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func fixInlineCode(s string) string {
	// Replace: \x1b[44;3m...text...\x1b[0m (Blue BG + Italic)
	// With:    \x1b[31m...text...\x1b[0m (Red text)
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func fixMarkdownLinks(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")

	for i, line := range lines {
		// Skip code blocks (they have ┃ prefix from the renderer)
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}

	return strings.Join(lines, "\n")
}

func frameCodeBlocks(s string, width int) string {
	lines := strings.Split(s, "\n")
	var result []string
	var codeBlockLines []string
	inCodeBlock := false

	darkGray := "\x1b[90m"
	reset := "\x1b[0m"

	for _, line := range lines {
		if strings.Contains(line, "┃") {
			if !inCodeBlock {
				inCodeBlock = true
				codeBlockLines = []string{}
				result = append(result, "")

				label := "[code]"
				labelLen := len(label)
				lineLen := width - 4
				leftLen := (lineLen - labelLen) / 2
				rightLen := lineLen - labelLen - leftLen
				border := darkGray + strings.Repeat("━", leftLen) + reset + label + darkGray + strings.Repeat("━", rightLen) + reset

				result = append(result, border)
				result = append(result, "")
			}

			cleanLine := stripCodeBlockPrefix(line)
			codeBlockLines = append(codeBlockLines, cleanLine)

		} else {
			if inCodeBlock {
				result = append(result, codeBlockLines...)
				result = append(result, "")
				border := darkGray + strings.Repeat("━", width-4) + reset
				result = append(result, border)
				result = append(result, "")

				codeBlockLines = nil
				inCodeBlock = false
			}
			result = append(result, line)
		}
	}

	if inCodeBlock && len(codeBlockLines) > 0 {
		result = append(result, codeBlockLines...)
		result = append(result, "")
		border := darkGray + strings.Repeat("━", width-4) + reset
		result = append(result, border)
		result = append(result, "")
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, "┃")
	if idx >= 0 {
		after := idx + len("┃")
		if after < len(line) && line[after] == ' ' {
			after++
		}
		if after < len(line) {
			return line[after:]
		}
		return ""
	}
	return line
}

func (a AppView) renderMarkdownAsync(messageIndex int, content string) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		startTime := time.Now()

		// Preprocess: strip markdown link syntax [text](url) → url
		content = preprocessLinks(content)

		// Disable autolink so URLs stay plain text; terminal emulators
		// handle URL detection themselves.
		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width-4, 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		processed := postProcessMarkdown(string(rendered), width)

		if config.DebugLog != nil {
			config.DebugLog.Printf("Markdown rendered and post-processed in %v", time.Since(startTime))
		}

		return markdownRenderedMsg{
			MessageIndex: messageIndex,
			Rendered:     processed,
		}
	}
}
