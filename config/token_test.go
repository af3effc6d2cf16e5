package config

import "testing"

func TestTokenStore_PlainText(t *testing.T) {
	dir := t.TempDir()
	store := NewTokenStore(SecurityPlainText, dir, "")

	t.Run("empty before first save", func(t *testing.T) {
		if err := store.Load(); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if store.Token() != "" {
			t.Errorf("fresh store has token %q", store.Token())
		}
	})

	t.Run("save then reload", func(t *testing.T) {
		if err := store.Save("bearer-abc123"); err != nil {
			t.Fatalf("Save: %v", err)
		}

		reopened := NewTokenStore(SecurityPlainText, dir, "")
		if err := reopened.Load(); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if reopened.Token() != "bearer-abc123" {
			t.Errorf("reloaded token = %q", reopened.Token())
		}
	})

	t.Run("clear removes the token", func(t *testing.T) {
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		if store.Token() != "" {
			t.Error("token survived Clear in memory")
		}

		reopened := NewTokenStore(SecurityPlainText, dir, "")
		if err := reopened.Load(); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if reopened.Token() != "" {
			t.Error("token survived Clear on disk")
		}

		// clearing twice is a no-op
		if err := store.Clear(); err != nil {
			t.Errorf("second Clear: %v", err)
		}
	})
}

func TestEncryptDecryptAESGCM(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	plaintext := []byte("session token material")

	ciphertext, err := encryptAESGCM(plaintext, key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if string(ciphertext) == string(plaintext) {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := decryptAESGCM(ciphertext, key)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if string(decrypted) != string(plaintext) {
		t.Errorf("round trip produced %q", decrypted)
	}

	t.Run("wrong key fails authentication", func(t *testing.T) {
		bad := make([]byte, 32)
		if _, err := decryptAESGCM(ciphertext, bad); err == nil {
			t.Error("decryption succeeded with the wrong key")
		}
	})

	t.Run("truncated ciphertext rejected", func(t *testing.T) {
		if _, err := decryptAESGCM(ciphertext[:8], key); err == nil {
			t.Error("decryption succeeded on truncated input")
		}
	})
}
