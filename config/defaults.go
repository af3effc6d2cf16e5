package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/sctui",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Server: ServerConfig{
			URL: "http://localhost:8000",
		},
		Defaults: DefaultsConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
			Style:    "balanced",
		},
		Arena: ArenaConfig{
			Models: []string{"gpt-4o-mini", "claude-3-5-haiku"},
		},
		Security: SecurityConfig{
			Method: string(SecurityPlainText),
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# SCTUI System Configuration
# Location: ~/.config/sctui/settings.toml
# This file uses TOML format: https://toml.io

# Directory where cached chats, the vote ledger and user config are stored
data_directory = "~/.local/share/sctui"
`
}

func GenerateUserConfigTemplate() string {
	return `# SCTUI User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[server]
# Secure Chat backend URL
url = "http://localhost:8000"

[defaults]
# Provider, model and response style sent with each message
provider = "openai"
model = "gpt-4o-mini"
style = "balanced"

[arena]
# The two models compared side by side in arena mode
models = ["gpt-4o-mini", "claude-3-5-haiku"]

[security]
# How the session token is stored at rest:
#   "plaintext" - readable file with 0600 permissions
#   "ssh_key"   - encrypted with a key derived from an SSH private key
method = "plaintext"

# Path to the SSH private key (ssh_key method only)
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
