package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"sctui/api"
	"sctui/config"
	appmodel "sctui/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		headerHeight := 1
		footerHeight := a.textarea.Height() + 2
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - headerHeight - footerHeight
		a.textarea.SetWidth(msg.Width - 2)

		if !a.ready {
			a.ready = true
		}
		a.updateViewportContent(true)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		if a.dataModel.Streaming {
			a.updateViewportContent(true)
		}
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case streamStartedMsg, streamChunkMsg, streamDoneMsg, streamCanceledMsg, streamErrorMsg, arenaRepliesMsg:
		return a.handleStreamingMessage(msg)

	case chatsListMsg:
		if msg.Err != nil {
			a.status = "Failed to load chats: " + msg.Err.Error()
			return a, nil
		}
		a.dataModel.Chats = msg.Chats
		if a.selectedChatIdx >= len(msg.Chats) && len(msg.Chats) > 0 {
			a.selectedChatIdx = len(msg.Chats) - 1
		}
		return a, nil

	case chatLoadedMsg:
		if msg.Err != nil {
			a.status = "Failed to load chat: " + msg.Err.Error()
			return a, nil
		}
		a.dataModel.ReplaceFromServer(msg.Chat)
		a.mode = viewChat
		a.status = ""
		a.updateViewportContent(true)
		return a, a.renderPendingMarkdown()

	case chatCreatedMsg:
		if msg.Err != nil {
			a.status = "Failed to create chat: " + msg.Err.Error()
			return a, nil
		}
		return a, tea.Batch(a.dataModel.FetchChats(), a.dataModel.LoadChat(msg.Chat.ID))

	case chatRenamedMsg:
		if msg.Err != nil {
			a.status = "Failed to rename chat: " + msg.Err.Error()
			return a, nil
		}
		if a.dataModel.Current != nil && a.dataModel.Current.ID == msg.Chat.ID {
			a.dataModel.Current.Title = msg.Chat.Title
		}
		return a, a.dataModel.FetchChats()

	case chatDeletedMsg:
		if msg.Err != nil {
			a.status = "Failed to delete chat: " + msg.Err.Error()
			return a, nil
		}
		if a.dataModel.Current != nil && a.dataModel.Current.ID == msg.ID {
			a.dataModel.Current = nil
		}
		return a, a.dataModel.FetchChats()

	case voteSubmittedMsg:
		if msg.Err != nil {
			a.status = "Vote may not have been recorded: " + msg.Err.Error()
		} else {
			a.status = "Vote recorded"
		}
		a.updateViewportContent(false)
		return a, nil

	case metricsMsg:
		a.metrics = msg
		a.metricsErr = msg.Err
		return a, nil

	case memoriesMsg:
		if msg.Err != nil {
			a.status = "Failed to load memories: " + msg.Err.Error()
			return a, nil
		}
		a.memories = msg.Memories
		if a.selectedMemIdx >= len(msg.Memories) && len(msg.Memories) > 0 {
			a.selectedMemIdx = len(msg.Memories) - 1
		}
		return a, nil

	case memorySavedMsg:
		if msg.Err != nil {
			a.status = "Failed to save memory: " + msg.Err.Error()
			return a, nil
		}
		return a, a.dataModel.FetchMemories()

	case memoryDeletedMsg:
		if msg.Err != nil {
			a.status = "Failed to delete memory: " + msg.Err.Error()
			return a, nil
		}
		return a, a.dataModel.FetchMemories()

	case cacheSearchMsg:
		// Only applied while the content-search fallback is still relevant.
		if msg.Err != nil || !a.filterMode || a.filterInput.Value() == "" {
			return a, nil
		}
		if len(a.filteredChats) > 0 {
			return a, nil
		}
		seen := make(map[int64]bool)
		for _, match := range msg.Matches {
			if seen[match.ChatID] {
				continue
			}
			seen[match.ChatID] = true
			for _, c := range a.dataModel.Chats {
				if c.ID == match.ChatID {
					a.filteredChats = append(a.filteredChats, c)
					break
				}
			}
		}
		return a, nil

	case markdownRenderedMsg:
		if a.dataModel.Current != nil &&
			msg.MessageIndex >= 0 && msg.MessageIndex < len(a.dataModel.Current.Messages) {
			a.dataModel.Current.Messages[msg.MessageIndex].Rendered = msg.Rendered
			a.updateViewportContent(false)
		}
		return a, nil
	}

	return a, nil
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.showHelp {
		switch msg.String() {
		case "esc", a.keys.GetActionKey("help"):
			a.showHelp = false
		}
		return a, nil
	}

	switch a.mode {
	case viewChatPicker:
		return a.handlePickerKey(msg)
	case viewDashboard:
		return a.handleDashboardKey(msg)
	case viewMemories:
		return a.handleMemoriesKey(msg)
	}
	return a.handleChatKey(msg)
}

func (a AppView) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case a.keys.GetActionKey("quit"):
		return a, tea.Quit

	case a.keys.GetActionKey("help"):
		a.showHelp = true
		return a, nil

	case a.keys.GetActionKey("chat_picker"):
		a.mode = viewChatPicker
		a.filterMode = false
		a.filterInput.SetValue("")
		return a, a.dataModel.FetchChats()

	case a.keys.GetActionKey("dashboard"):
		a.mode = viewDashboard
		return a, a.dataModel.FetchMetrics()

	case a.keys.GetActionKey("memories"):
		a.mode = viewMemories
		a.memAddMode = false
		return a, a.dataModel.FetchMemories()

	case a.keys.GetActionKey("new_chat"):
		a.mode = viewChatPicker
		a.newChatMode = true
		a.newChatInput.SetValue("")
		a.newChatInput.Focus()
		return a, nil

	case a.keys.GetActionKey("rename_chat"):
		if a.dataModel.Current == nil {
			return a, nil
		}
		a.mode = viewChatPicker
		for i, c := range a.dataModel.Chats {
			if c.ID == a.dataModel.Current.ID {
				a.selectedChatIdx = i
				break
			}
		}
		a.renameMode = true
		a.renameInput.SetValue(a.dataModel.Current.Title)
		a.renameInput.Focus()
		return a, nil

	case a.keys.GetActionKey("search_chats"):
		a.mode = viewChatPicker
		a.filterMode = true
		a.filterInput.SetValue("")
		a.filterInput.Focus()
		a.filteredChats = nil
		return a, a.dataModel.FetchChats()

	case a.keys.GetActionKey("arena_toggle"):
		if a.dataModel.Streaming {
			return a, nil
		}
		a.dataModel.ArenaMode = !a.dataModel.ArenaMode
		if a.dataModel.ArenaMode {
			a.status = fmt.Sprintf("Arena mode: %s vs %s",
				a.dataModel.ArenaModels[0], a.dataModel.ArenaModels[1])
		} else {
			a.status = "Arena mode off"
		}
		return a, nil

	case a.keys.GetActionKey("yank_reply"):
		if text := a.lastAssistantContent(); text != "" {
			if err := clipboard.WriteAll(text); err != nil {
				a.status = "Copy failed: " + err.Error()
			} else {
				a.status = "Reply copied"
			}
		}
		return a, nil

	case a.keys.GetActionKey("scroll_down"):
		a.viewport.ScrollDown(1)
		return a, nil

	case a.keys.GetActionKey("scroll_up"):
		a.viewport.ScrollUp(1)
		return a, nil

	case a.keys.GetActionKey("scroll_to_top"):
		a.viewport.GotoTop()
		return a, nil

	case a.keys.GetActionKey("scroll_to_bottom"):
		a.viewport.GotoBottom()
		return a, nil

	case "esc":
		// Esc cancels an in-flight stream; the terminal event arrives
		// through the stream channel, which is where state is unwound.
		if a.dataModel.Streaming && a.dataModel.CancelStream != nil {
			a.dataModel.CancelStream()
			a.status = "Canceling..."
		}
		return a, nil

	case a.keys.GetActionKey("vote_left"):
		return a.voteOnLastPair(appmodel.LeftBetter)
	case a.keys.GetActionKey("vote_right"):
		return a.voteOnLastPair(appmodel.RightBetter)
	case a.keys.GetActionKey("vote_tie"):
		return a.voteOnLastPair(appmodel.Tie)

	case "enter":
		return a.sendCurrentInput()
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// voteOnLastPair submits a verdict for the most recent unvoted arena pair.
// Vote keys are plain digits, so they only act when such a pair exists;
// otherwise the keystroke falls through to the input.
func (a AppView) voteOnLastPair(outcome appmodel.VoteOutcome) (tea.Model, tea.Cmd) {
	pair, ok := a.latestVotablePair()
	if !ok {
		var cmd tea.Cmd
		a.textarea, cmd = a.textarea.Update(keyRunes(outcomeKey(outcome)))
		return a, cmd
	}

	cmd := a.dataModel.SubmitVote(pair, outcome)
	if cmd != nil {
		a.updateViewportContent(false)
	}
	return a, cmd
}

func outcomeKey(o appmodel.VoteOutcome) string {
	switch o {
	case appmodel.LeftBetter:
		return "1"
	case appmodel.RightBetter:
		return "2"
	default:
		return "3"
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// latestVotablePair finds the most recent arena pair still open for voting.
func (a AppView) latestVotablePair() (appmodel.RenderItem, bool) {
	if a.dataModel.Current == nil {
		return appmodel.RenderItem{}, false
	}
	items := appmodel.BuildRenderList(a.dataModel.Current.Messages)
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Pair && a.dataModel.CanVote(items[i].ComparisonID()) {
			return items[i], true
		}
	}
	return appmodel.RenderItem{}, false
}

func (a AppView) sendCurrentInput() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(a.textarea.Value())
	if content == "" {
		return a, nil
	}
	if a.dataModel.Current == nil {
		a.status = "Open or create a chat first"
		return a, nil
	}
	if !a.dataModel.BeginSend(content) {
		return a, nil
	}

	a.textarea.Reset()
	a.status = ""
	a.updateViewportContent(true)

	if a.dataModel.ArenaMode {
		return a, a.dataModel.SendArena(content)
	}
	return a, a.dataModel.StartStream(content)
}

func (a AppView) lastAssistantContent() string {
	if a.dataModel.Current == nil {
		return ""
	}
	msgs := a.dataModel.Current.Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == appmodel.RoleAssistant && msgs[i].Content != "" {
			return msgs[i].Content
		}
	}
	return ""
}

func (a AppView) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal sub-states first
	if a.newChatMode {
		switch msg.String() {
		case "esc":
			a.newChatMode = false
			return a, nil
		case "enter":
			title := strings.TrimSpace(a.newChatInput.Value())
			if title == "" {
				title = "New Chat"
			}
			a.newChatMode = false
			return a, a.dataModel.CreateChat(title)
		}
		var cmd tea.Cmd
		a.newChatInput, cmd = a.newChatInput.Update(msg)
		return a, cmd
	}

	if a.renameMode {
		switch msg.String() {
		case "esc":
			a.renameMode = false
			return a, nil
		case "enter":
			title := strings.TrimSpace(a.renameInput.Value())
			a.renameMode = false
			if title == "" {
				return a, nil
			}
			if chat, ok := a.selectedChat(); ok {
				return a, a.dataModel.RenameChat(chat.ID, title)
			}
			return a, nil
		}
		var cmd tea.Cmd
		a.renameInput, cmd = a.renameInput.Update(msg)
		return a, cmd
	}

	if a.confirmDelete != nil {
		switch msg.String() {
		case "y", "Y":
			id := a.confirmDelete.ID
			a.confirmDelete = nil
			return a, a.dataModel.DeleteChat(id)
		case "n", "N", "esc":
			a.confirmDelete = nil
		}
		return a, nil
	}

	if a.filterMode {
		switch msg.String() {
		case "esc":
			a.filterMode = false
			a.filterInput.SetValue("")
			return a, nil
		case "enter":
			a.filterMode = false
			return a.openSelectedChat()
		case "up", "down":
			// fall through to list navigation below
		default:
			var cmd tea.Cmd
			a.filterInput, cmd = a.filterInput.Update(msg)
			return a, tea.Batch(cmd, a.applyChatFilter())
		}
	}

	switch msg.String() {
	case "esc":
		a.mode = viewChat
		return a, nil

	case "/":
		a.filterMode = true
		a.filterInput.SetValue("")
		a.filterInput.Focus()
		a.filteredChats = nil
		return a, nil

	case "j", "down":
		if a.selectedChatIdx < len(a.chatList())-1 {
			a.selectedChatIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedChatIdx > 0 {
			a.selectedChatIdx--
		}
		return a, nil

	case "n":
		a.newChatMode = true
		a.newChatInput.SetValue("")
		a.newChatInput.Focus()
		return a, nil

	case "r":
		if chat, ok := a.selectedChat(); ok {
			a.renameMode = true
			a.renameInput.SetValue(chat.Title)
			a.renameInput.Focus()
		}
		return a, nil

	case "d":
		if chat, ok := a.selectedChat(); ok {
			c := chat
			a.confirmDelete = &c
		}
		return a, nil

	case "enter":
		return a.openSelectedChat()
	}

	return a, nil
}

// applyChatFilter fuzzy-matches chat titles; when no title matches, it falls
// back to searching cached message bodies and resolves hits back to chats.
func (a *AppView) applyChatFilter() tea.Cmd {
	filterValue := a.filterInput.Value()
	if filterValue == "" {
		a.filteredChats = nil
		return nil
	}

	targets := make([]string, len(a.dataModel.Chats))
	for i, c := range a.dataModel.Chats {
		targets[i] = c.Title
	}

	matches := fuzzy.Find(filterValue, targets)
	a.filteredChats = make([]api.Chat, len(matches))
	for i, match := range matches {
		a.filteredChats[i] = a.dataModel.Chats[match.Index]
	}

	if a.selectedChatIdx >= len(a.filteredChats) && len(a.filteredChats) > 0 {
		a.selectedChatIdx = len(a.filteredChats) - 1
	}

	if len(a.filteredChats) == 0 && len(filterValue) >= 2 {
		return a.dataModel.SearchCache(filterValue)
	}
	return nil
}

func (a AppView) selectedChat() (api.Chat, bool) {
	list := a.chatList()
	if len(list) == 0 || a.selectedChatIdx < 0 || a.selectedChatIdx >= len(list) {
		return api.Chat{}, false
	}
	return list[a.selectedChatIdx], true
}

func (a AppView) openSelectedChat() (tea.Model, tea.Cmd) {
	chat, ok := a.selectedChat()
	if !ok {
		return a, nil
	}
	return a, a.dataModel.LoadChat(chat.ID)
}

func (a AppView) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", a.keys.GetActionKey("dashboard"):
		a.mode = viewChat
		return a, nil
	case "r":
		return a, a.dataModel.FetchMetrics()
	case a.keys.GetActionKey("quit"):
		return a, tea.Quit
	}
	return a, nil
}

func (a AppView) handleMemoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.memAddMode {
		switch msg.String() {
		case "esc":
			a.memAddMode = false
			return a, nil
		case "tab", "down":
			a.focusMemField((a.memFocused + 1) % 3)
			return a, nil
		case "shift+tab", "up":
			a.focusMemField((a.memFocused + 2) % 3)
			return a, nil
		case "enter":
			category := strings.TrimSpace(a.memInputs[0].Value())
			key := strings.TrimSpace(a.memInputs[1].Value())
			value := strings.TrimSpace(a.memInputs[2].Value())
			if category == "" || key == "" || value == "" {
				a.status = "All three fields are required"
				return a, nil
			}
			a.memAddMode = false
			return a, a.dataModel.AddMemory(category, key, value)
		}
		var cmd tea.Cmd
		a.memInputs[a.memFocused], cmd = a.memInputs[a.memFocused].Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "esc", a.keys.GetActionKey("memories"):
		a.mode = viewChat
		return a, nil

	case "j", "down":
		if a.selectedMemIdx < len(a.memories)-1 {
			a.selectedMemIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedMemIdx > 0 {
			a.selectedMemIdx--
		}
		return a, nil

	case "a":
		a.memAddMode = true
		for i := range a.memInputs {
			a.memInputs[i].SetValue("")
		}
		a.focusMemField(0)
		return a, nil

	case "d":
		if len(a.memories) > 0 && a.selectedMemIdx < len(a.memories) {
			return a, a.dataModel.DeleteMemory(a.memories[a.selectedMemIdx].ID)
		}
		return a, nil

	case "r":
		return a, a.dataModel.FetchMemories()

	case a.keys.GetActionKey("quit"):
		return a, tea.Quit
	}
	return a, nil
}

func (a *AppView) focusMemField(idx int) {
	a.memFocused = idx
	for i := range a.memInputs {
		if i == idx {
			a.memInputs[i].Focus()
		} else {
			a.memInputs[i].Blur()
		}
	}
}

// renderPendingMarkdown kicks off async markdown rendering for any message
// whose rendered cache is empty.
func (a AppView) renderPendingMarkdown() tea.Cmd {
	if a.dataModel.Current == nil {
		return nil
	}
	var cmds []tea.Cmd
	for i, msg := range a.dataModel.Current.Messages {
		if msg.Rendered == "" && msg.Content != "" && msg.Role == appmodel.RoleAssistant {
			cmds = append(cmds, a.renderMarkdownAsync(i, msg.Content))
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("Queued %d markdown renders", len(cmds))
	}
	return tea.Batch(cmds...)
}
