package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogin_FormEncoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type: got %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostFormValue("username"); got != "user@example.com" {
			t.Errorf("username: got %q", got)
		}
		if got := r.PostFormValue("password"); got != "s3cret" {
			t.Errorf("password: got %q", got)
		}
		w.Write([]byte(`{"access_token": "tok-1", "token_type": "bearer"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	tok, err := client.Login(context.Background(), "user@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "tok-1" {
		t.Errorf("access token: got %q", tok.AccessToken)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Incorrect email or password"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Login(context.Background(), "user@example.com", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestChangePassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/change-password" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		var body struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.CurrentPassword != "old-pw" || body.NewPassword != "new-pw" {
			t.Errorf("unexpected body: %+v", body)
		}
		w.Write([]byte(`{"message": "Password updated"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("tok"))
	if err := client.ChangePassword(context.Background(), "old-pw", "new-pw"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
}

func TestRegister_SendsInviteCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		w.Write([]byte(`{"id": 5, "email": "new@example.com", "is_admin": false, "created_at": "2026-01-02T03:04:05Z"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	user, err := client.Register(context.Background(), RegisterRequest{
		Email:      "new@example.com",
		Password:   "pw",
		InviteCode: "launch-42",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != 5 || user.Email != "new@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
}
