package advisor_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/martinsuchenak/advisorctl/internal/advisor"
	"github.com/martinsuchenak/advisorctl/internal/advisor/advisortest"
)

func TestLogin_Success(t *testing.T) {
	srv := advisortest.NewServer(t)
	client, store := setupClient(t, srv, "")

	if err := client.Login(context.Background(), advisortest.DefaultUsername, advisortest.DefaultPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	session, _ := store.GetSession()
	if session.Token != advisortest.DefaultToken {
		t.Errorf("Expected token %q, got %q", advisortest.DefaultToken, session.Token)
	}
	if session.Username != advisortest.DefaultUsername {
		t.Errorf("Expected username to be remembered, got %q", session.Username)
	}

	// Authenticated reads now work
	if _, err := client.ListSystems(context.Background()); err != nil {
		t.Errorf("Expected authenticated read to succeed, got %v", err)
	}
}

func TestLogin_DoesNotSendExistingToken(t *testing.T) {
	srv := advisortest.NewServer(t)
	client, _ := setupClient(t, srv, "old-token")

	if err := client.Login(context.Background(), advisortest.DefaultUsername, advisortest.DefaultPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got := srv.LastHeaders().Get("Authorization"); got != "" {
		t.Errorf("Expected login without Authorization header, got %q", got)
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		handler  http.HandlerFunc
	}{
		{
			name:     "bad credentials",
			username: "admin",
			password: "wrong",
		},
		{
			name:     "missing password",
			username: "admin",
		},
		{
			name:     "2xx without token",
			username: "admin",
			password: "secret",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"user":"admin"}`))
			},
		},
		{
			name:     "explicit failure",
			username: "admin",
			password: "secret",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":false,"message":"account locked","token":"ignored"}`))
			},
		},
		{
			name:     "unparseable body",
			username: "admin",
			password: "secret",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := advisortest.NewServer(t)
			if tt.handler != nil {
				srv.Override("/porcelain/v2/auth/login", tt.handler)
			}
			client, store := setupClient(t, srv, "")

			err := client.Login(context.Background(), tt.username, tt.password)
			if !errors.Is(err, advisor.ErrAuthFailed) {
				t.Fatalf("Expected ErrAuthFailed, got %v", err)
			}

			session, _ := store.GetSession()
			if session.HasToken() {
				t.Errorf("Expected no token to be persisted, got %q", session.Token)
			}
			if session.Username != "" {
				t.Errorf("Expected no username to be persisted, got %q", session.Username)
			}
		})
	}
}

func TestLogin_ExplicitFailureMessage(t *testing.T) {
	srv := advisortest.NewServer(t)
	srv.Override("/porcelain/v2/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"account locked"}`))
	})
	client, _ := setupClient(t, srv, "")

	err := client.Login(context.Background(), "admin", "secret")
	if err == nil || err.Error() != "authentication failed: account locked" {
		t.Errorf("Expected readable failure message, got %v", err)
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	srv := advisortest.NewServer(t)
	client, store := setupClient(t, srv, "")
	store.ClearSession()

	err := client.Login(context.Background(), "admin", "secret")
	if !errors.Is(err, advisor.ErrNotConfigured) {
		t.Fatalf("Expected ErrNotConfigured, got %v", err)
	}
	if srv.TotalHits() != 0 {
		t.Errorf("Expected no network access, got %d requests", srv.TotalHits())
	}
}
