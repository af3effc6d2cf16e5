package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sctui/api"
	"sctui/model"
)

type loginScreen int

const (
	screenLogin loginScreen = iota
	screenRegister
)

// LoginView is the standalone sign-in program run before the main app. It
// resolves to a token and user on success; main then persists the token and
// starts the chat view.
type LoginView struct {
	client *api.Client
	screen loginScreen

	emailInput    textinput.Model
	passwordInput textinput.Model
	inviteInput   textinput.Model
	focusedField  int

	width  int
	height int

	err     string
	notice  string
	loading bool

	token    string
	user     api.User
	complete bool
}

var (
	loginTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	loginErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	loginInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
)

func NewLoginView(client *api.Client) LoginView {
	emailInput := textinput.New()
	emailInput.Placeholder = "you@example.com"
	emailInput.Prompt = "Email: "
	emailInput.Width = 40
	emailInput.CharLimit = 200
	emailInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Prompt = "Password: "
	passwordInput.Width = 40
	passwordInput.CharLimit = 200
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	inviteInput := textinput.New()
	inviteInput.Prompt = "Invite code: "
	inviteInput.Width = 40
	inviteInput.CharLimit = 100

	return LoginView{
		client:        client,
		screen:        screenLogin,
		emailInput:    emailInput,
		passwordInput: passwordInput,
		inviteInput:   inviteInput,
	}
}

// IsComplete reports whether sign-in finished successfully.
func (v LoginView) IsComplete() bool { return v.complete }

// Token returns the session token acquired by a successful login.
func (v LoginView) Token() string { return v.token }

// User returns the authenticated account.
func (v LoginView) User() api.User { return v.user }

func (v LoginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v LoginView) fieldCount() int {
	if v.screen == screenRegister {
		return 3
	}
	return 2
}

func (v *LoginView) focusField(idx int) {
	v.focusedField = idx
	inputs := []*textinput.Model{&v.emailInput, &v.passwordInput, &v.inviteInput}
	for i, in := range inputs {
		if i == idx {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (v LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		if v.loading {
			return v, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return v, tea.Quit

		case "tab", "down":
			v.focusField((v.focusedField + 1) % v.fieldCount())
			return v, nil

		case "shift+tab", "up":
			v.focusField((v.focusedField + v.fieldCount() - 1) % v.fieldCount())
			return v, nil

		case "ctrl+r":
			if v.screen == screenLogin {
				v.screen = screenRegister
			} else {
				v.screen = screenLogin
			}
			v.err = ""
			v.notice = ""
			v.focusField(0)
			return v, nil

		case "enter":
			email := v.emailInput.Value()
			password := v.passwordInput.Value()
			if email == "" || password == "" {
				v.err = "Email and password are required"
				return v, nil
			}
			v.loading = true
			v.err = ""
			if v.screen == screenRegister {
				return v, model.RegisterAccount(v.client, email, password, v.inviteInput.Value())
			}
			return v, model.Authenticate(v.client, email, password)
		}

		var cmd tea.Cmd
		switch v.focusedField {
		case 0:
			v.emailInput, cmd = v.emailInput.Update(msg)
		case 1:
			v.passwordInput, cmd = v.passwordInput.Update(msg)
		case 2:
			v.inviteInput, cmd = v.inviteInput.Update(msg)
		}
		return v, cmd

	case loginResultMsg:
		v.loading = false
		if msg.Err != nil {
			v.err = loginErrorText(msg.Err)
			return v, nil
		}
		v.token = msg.Token
		v.user = msg.User
		v.complete = true
		return v, tea.Quit

	case registerResultMsg:
		v.loading = false
		if msg.Err != nil {
			v.err = loginErrorText(msg.Err)
			return v, nil
		}
		v.screen = screenLogin
		v.notice = fmt.Sprintf("Account %s created. Sign in to continue.", msg.User.Email)
		v.focusField(0)
		return v, nil
	}

	return v, nil
}

func loginErrorText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}

func (v LoginView) View() string {
	title := "Sign in to Secure Chat"
	action := "Sign in"
	toggleHint := "Ctrl+R Register"
	if v.screen == screenRegister {
		title = "Create an account"
		action = "Register"
		toggleHint = "Ctrl+R Back to sign in"
	}

	fields := []string{
		loginInputStyle.Render(v.emailInput.View()),
		loginInputStyle.Render(v.passwordInput.View()),
	}
	if v.screen == screenRegister {
		fields = append(fields, loginInputStyle.Render(v.inviteInput.View()))
	}

	var statusLine string
	switch {
	case v.loading:
		statusLine = DimStyle.Render("Contacting server...")
	case v.err != "":
		statusLine = loginErrorStyle.Render(v.err)
	case v.notice != "":
		statusLine = DimStyle.Render(v.notice)
	}

	footer := FormatFooter(
		"Enter", action,
		"Tab", "Next field",
		toggleHint, "",
		"Esc", "Quit",
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		loginTitleStyle.Render(title),
		"",
		lipgloss.JoinVertical(lipgloss.Left, fields...),
		"",
		statusLine,
		"",
		footer,
	)

	if v.width == 0 {
		return content
	}

	return lipgloss.Place(
		v.width,
		v.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}
