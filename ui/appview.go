package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"sctui/api"
	"sctui/config"
	appmodel "sctui/model"
)

type viewMode int

const (
	viewChat viewMode = iota
	viewChatPicker
	viewDashboard
	viewMemories
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model
	keys      *config.KeyBindingsConfig

	// UI components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	mode     viewMode
	showHelp bool
	status   string // transient status/error line under the input

	// Open stream event channel; nil when no send is in flight
	streamEvents <-chan api.StreamEvent

	// Chat picker
	selectedChatIdx int
	filterMode      bool
	filterInput     textinput.Model
	filteredChats   []api.Chat
	renameMode      bool
	renameInput     textinput.Model
	newChatMode     bool
	newChatInput    textinput.Model
	confirmDelete   *api.Chat

	// Dashboard
	metrics    appmodel.MetricsMsg
	metricsErr error

	// Memories
	memories       []api.Memory
	selectedMemIdx int
	memAddMode     bool
	memInputs      [3]textinput.Model // category, key, value
	memFocused     int
}

func NewAppView(dataModel *appmodel.Model, keys *config.KeyBindingsConfig) AppView {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline; Enter alone sends (handled in Update)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	filterInput := textinput.New()
	filterInput.Prompt = "Filter: "
	filterInput.CharLimit = 64

	renameInput := textinput.New()
	renameInput.Prompt = "New title: "
	renameInput.CharLimit = 200

	newChatInput := textinput.New()
	newChatInput.Prompt = "Title: "
	newChatInput.CharLimit = 200

	var memInputs [3]textinput.Model
	for i, prompt := range []string{"Category: ", "Key: ", "Value: "} {
		in := textinput.New()
		in.Prompt = prompt
		in.CharLimit = 500
		memInputs[i] = in
	}

	return AppView{
		dataModel:       dataModel,
		keys:            keys,
		textarea:        ta,
		viewport:        vp,
		loadingSpinner:  sp,
		mode:            viewChat,
		filterInput:     filterInput,
		renameInput:     renameInput,
		newChatInput:    newChatInput,
		memInputs:       memInputs,
		selectedChatIdx: 0,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.loadingSpinner.Tick,
		a.dataModel.FetchChats(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	switch a.mode {
	case viewChatPicker:
		return a.renderChatPicker()
	case viewDashboard:
		return a.renderDashboard()
	case viewMemories:
		return a.renderMemories()
	default:
		return a.renderChatView()
	}
}

// chatList returns the list currently shown in the picker, filtered or not.
func (a AppView) chatList() []api.Chat {
	if a.filterMode && a.filterInput.Value() != "" {
		return a.filteredChats
	}
	return a.dataModel.Chats
}
