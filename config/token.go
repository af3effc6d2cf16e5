package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SecurityMethod defines how the session token is stored at rest
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecuritySSHKey    SecurityMethod = "ssh_key"
)

// TokenStore persists the backend session token between runs. It implements
// the client's token source, so a token saved after login is picked up by
// every request without re-wiring the client.
type TokenStore struct {
	method     SecurityMethod
	dataDir    string
	sshKeyPath string
	passphrase string
	encManager *EncryptionManager

	mu    sync.RWMutex
	token string
}

// NewTokenStore creates a token store. sshKeyPath is only used with the
// ssh_key method.
func NewTokenStore(method SecurityMethod, dataDir, sshKeyPath string) *TokenStore {
	return &TokenStore{
		method:     method,
		dataDir:    dataDir,
		sshKeyPath: sshKeyPath,
	}
}

// SetPassphrase sets the passphrase for an encrypted SSH key.
func (s *TokenStore) SetPassphrase(passphrase string) {
	s.passphrase = passphrase
	if s.encManager != nil {
		s.encManager.SetPassphrase(passphrase)
	}
}

// Token returns the in-memory session token. Empty until Load or Save.
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *TokenStore) path() string {
	if s.method == SecuritySSHKey {
		return filepath.Join(s.dataDir, "token.enc")
	}
	return filepath.Join(s.dataDir, "token")
}

// Load reads the persisted token from disk. A missing file is not an error;
// the store just stays empty and the UI shows the login screen.
func (s *TokenStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path()
	if !FileExists(path) {
		s.token = ""
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read token file: %w", err)
	}

	if s.method == SecuritySSHKey {
		if err := s.ensureEncryption(); err != nil {
			return err
		}
		data, err = s.encManager.Decrypt(data)
		if err != nil {
			return fmt.Errorf("failed to decrypt token: %w", err)
		}
	}

	s.token = strings.TrimSpace(string(data))
	return nil
}

// Save persists the token and makes it the active one.
func (s *TokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := []byte(token)
	if s.method == SecuritySSHKey {
		if err := s.ensureEncryption(); err != nil {
			return err
		}
		encrypted, err := s.encManager.Encrypt(data)
		if err != nil {
			return fmt.Errorf("failed to encrypt token: %w", err)
		}
		data = encrypted
	}

	// 0600 - the token grants full account access
	if err := os.WriteFile(s.path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	s.token = token
	return nil
}

// Clear removes the persisted token (logout).
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	err := os.Remove(s.path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *TokenStore) ensureEncryption() error {
	if s.encManager != nil {
		return nil
	}
	mgr := NewEncryptionManager(EncryptionSSHKey, s.sshKeyPath)
	mgr.SetPassphrase(s.passphrase)
	if err := mgr.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize encryption: %w", err)
	}
	s.encManager = mgr
	return nil
}
