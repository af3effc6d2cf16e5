package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"sctui/api"
	"sctui/config"
	"sctui/model"
	"sctui/storage"
	"sctui/ui"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	if cfg.Security == config.SecuritySSHKey && cfg.SSHKeyPath == "" {
		keys, err := config.FindSSHKeys()
		if err != nil || len(keys) == 0 {
			fmt.Println("Security method ssh_key needs a key: set ssh_key_path in config.toml")
			os.Exit(1)
		}
		cfg.SSHKeyPath = keys[0]
		config.Logf("using discovered SSH key %s", cfg.SSHKeyPath)
	}

	tokens := config.NewTokenStore(cfg.Security, cfg.DataDir(), cfg.SSHKeyPath)
	if cfg.Security == config.SecuritySSHKey {
		if err := unlockSSHKey(cfg.SSHKeyPath, tokens); err != nil {
			fmt.Printf("Failed to unlock SSH key %s: %v\n", cfg.SSHKeyPath, err)
			os.Exit(1)
		}
	}
	if err := tokens.Load(); err != nil {
		// A corrupt or undecryptable token file just means logging in again.
		config.Logf("could not load saved token: %v", err)
	}

	client := api.NewClient(cfg.ServerURL, tokens, api.WithLogger(config.Logf))

	user, ok := resumeSession(client, tokens)
	if !ok {
		user, ok = runLogin(client, tokens)
		if !ok {
			os.Exit(0)
		}
	}

	cache, err := storage.NewChatCache(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize chat cache: %v\n", err)
		os.Exit(1)
	}

	ledger, err := storage.NewVoteLedger(cfg.DataDir())
	if err != nil {
		// Votes still work this run, they just aren't remembered across runs.
		config.Logf("vote ledger unavailable: %v", err)
		ledger = nil
	} else {
		defer ledger.Close()
	}

	keys, err := config.LoadKeybindings(cfg.DataDir())
	if err != nil {
		config.Logf("keybindings config invalid, using defaults: %v", err)
		keys = config.DefaultKeybindings()
	}

	dataModel := model.NewModel(cfg, client, cache, ledger, Version)
	dataModel.User = user

	p := tea.NewProgram(
		ui.NewAppView(dataModel, keys),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running sctui: %v\n", err)
		os.Exit(1)
	}
}

// resumeSession checks whether the stored token is still accepted by the
// server. An expired token is cleared so the login screen comes up clean.
func resumeSession(client *api.Client, tokens *config.TokenStore) (api.User, bool) {
	if tokens.Token() == "" {
		return api.User{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	user, err := client.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			config.Logf("saved token rejected, clearing it")
			if clearErr := tokens.Clear(); clearErr != nil {
				config.Logf("failed to clear token: %v", clearErr)
			}
		} else {
			config.Logf("session check failed: %v", err)
		}
		return api.User{}, false
	}
	return user, true
}

// runLogin drives the login/register screen and persists the resulting token.
func runLogin(client *api.Client, tokens *config.TokenStore) (api.User, bool) {
	p := tea.NewProgram(ui.NewLoginView(client), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		fmt.Printf("Error running login: %v\n", err)
		os.Exit(1)
	}

	lv, isLogin := finalModel.(ui.LoginView)
	if !isLogin || !lv.IsComplete() {
		return api.User{}, false
	}

	if err := tokens.Save(lv.Token()); err != nil {
		// Not fatal; the session just won't survive this run.
		fmt.Fprintf(os.Stderr, "Warning: could not save session token: %v\n", err)
	}
	return lv.User(), true
}

// unlockSSHKey prompts for the key passphrase when the configured key is
// encrypted. Runs before any TUI program starts, so plain stdin is fine.
func unlockSSHKey(keyPath string, tokens *config.TokenStore) error {
	encrypted, err := config.IsSSHKeyEncrypted(keyPath)
	if err != nil {
		return err
	}
	if !encrypted {
		return nil
	}

	fmt.Printf("Enter passphrase for %s: ", keyPath)
	passphrase, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read passphrase: %w", err)
	}

	tokens.SetPassphrase(string(passphrase))
	return nil
}
