package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"sctui/api"
)

// Authenticate exchanges credentials for a token and immediately resolves
// the account behind it, so the login flow lands with the user loaded.
func Authenticate(client *api.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		tok, err := client.Login(ctx, email, password)
		if err != nil {
			return LoginResultMsg{Err: err}
		}

		authed := api.NewClient(client.BaseURL(), api.StaticToken(tok.AccessToken))
		user, err := authed.Me(ctx)
		if err != nil {
			return LoginResultMsg{Err: err}
		}
		return LoginResultMsg{Token: tok.AccessToken, User: user}
	}
}

// RegisterAccount creates an invite-gated account.
func RegisterAccount(client *api.Client, email, password, inviteCode string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		user, err := client.Register(ctx, api.RegisterRequest{
			Email:      email,
			Password:   password,
			InviteCode: inviteCode,
		})
		return RegisterResultMsg{User: user, Err: err}
	}
}
