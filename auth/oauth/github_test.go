package oauth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/skillsenselab/classboard/auth/oauth"
)

var _ oauth.Provider = (*oauth.GitHubProvider)(nil)

func newGitHubProvider(t *testing.T, opts ...oauth.Option) *oauth.GitHubProvider {
	t.Helper()
	p, err := oauth.NewGitHubProvider(oauth.Config{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		RedirectURL:  "https://example.com/api/auth/github/callback",
	}, opts...)
	if err != nil {
		t.Fatalf("NewGitHubProvider failed: %v", err)
	}
	return p
}

func TestNewGitHubProviderValidation(t *testing.T) {
	t.Run("missing client id", func(t *testing.T) {
		_, err := oauth.NewGitHubProvider(oauth.Config{ClientSecret: "s"})
		if !errors.Is(err, oauth.ErrMissingClientID) {
			t.Errorf("expected ErrMissingClientID, got %v", err)
		}
	})
	t.Run("missing client secret", func(t *testing.T) {
		_, err := oauth.NewGitHubProvider(oauth.Config{ClientID: "id"})
		if !errors.Is(err, oauth.ErrMissingClientSecret) {
			t.Errorf("expected ErrMissingClientSecret, got %v", err)
		}
	})
}

func TestGitHubAuthCodeURL(t *testing.T) {
	p := newGitHubProvider(t)
	u := p.AuthCodeURL("")

	if !strings.HasPrefix(u, "https://github.com/login/oauth/authorize") {
		t.Errorf("unexpected authorize endpoint: %q", u)
	}
	for _, want := range []string{"client_id=test-id", "scope=user%3Aemail", "redirect_uri="} {
		if !strings.Contains(u, want) {
			t.Errorf("expected %q in %q", want, u)
		}
	}
}

func TestGitHubExchange(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/login/oauth/access_token" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{
				"access_token": "gh-test-token",
				"token_type":   "Bearer",
			})
		}))
		p := newGitHubProvider(t, oauth.WithHTTPClient(client))

		token, err := p.Exchange(context.Background(), "test-code")
		if err != nil {
			t.Fatalf("Exchange failed: %v", err)
		}
		if token.AccessToken != "gh-test-token" {
			t.Errorf("expected access token 'gh-test-token', got %q", token.AccessToken)
		}
	})

	t.Run("rejected code", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code"})
		}))
		p := newGitHubProvider(t, oauth.WithHTTPClient(client))

		_, err := p.Exchange(context.Background(), "bad-code")
		if !errors.Is(err, oauth.ErrExchangeFailed) {
			t.Errorf("expected ErrExchangeFailed, got %v", err)
		}
	})
}

func githubAPIMux(t *testing.T, emails []map[string]any) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"login": "octocat",
			"name":  "Octo Cat",
		})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(emails)
	})
	return mux
}

func TestGitHubFetchProfile(t *testing.T) {
	token := &oauth2.Token{AccessToken: "test-token"}

	t.Run("primary verified email selected", func(t *testing.T) {
		mux := githubAPIMux(t, []map[string]any{
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "me@example.com", "primary": true, "verified": true},
		})
		p := newGitHubProvider(t, oauth.WithHTTPClient(testClient(t, mux)))

		profile, err := p.FetchProfile(context.Background(), token)
		if err != nil {
			t.Fatalf("FetchProfile failed: %v", err)
		}
		if profile.Email != "me@example.com" {
			t.Errorf("expected primary verified email, got %q", profile.Email)
		}
		if profile.Name != "Octo Cat" || profile.Login != "octocat" {
			t.Errorf("unexpected identity: %+v", profile)
		}
	})

	t.Run("verified but not primary is rejected", func(t *testing.T) {
		mux := githubAPIMux(t, []map[string]any{
			{"email": "side@example.com", "primary": false, "verified": true},
			{"email": "main@example.com", "primary": true, "verified": false},
		})
		p := newGitHubProvider(t, oauth.WithHTTPClient(testClient(t, mux)))

		_, err := p.FetchProfile(context.Background(), token)
		if !errors.Is(err, oauth.ErrEmailNotVerified) {
			t.Errorf("expected ErrEmailNotVerified, got %v", err)
		}
	})

	t.Run("no emails at all", func(t *testing.T) {
		mux := githubAPIMux(t, []map[string]any{})
		p := newGitHubProvider(t, oauth.WithHTTPClient(testClient(t, mux)))

		_, err := p.FetchProfile(context.Background(), token)
		if !errors.Is(err, oauth.ErrEmailNotVerified) {
			t.Errorf("expected ErrEmailNotVerified, got %v", err)
		}
	})

	t.Run("user endpoint failure", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		p := newGitHubProvider(t, oauth.WithHTTPClient(testClient(t, mux)))

		_, err := p.FetchProfile(context.Background(), token)
		if !errors.Is(err, oauth.ErrRequestFailed) {
			t.Errorf("expected ErrRequestFailed, got %v", err)
		}
	})

	t.Run("bad JSON from emails endpoint", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"login": "octocat"})
		})
		mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("not-json"))
		})
		p := newGitHubProvider(t, oauth.WithHTTPClient(testClient(t, mux)))

		_, err := p.FetchProfile(context.Background(), token)
		if !errors.Is(err, oauth.ErrDecodeFailed) {
			t.Errorf("expected ErrDecodeFailed, got %v", err)
		}
	})
}

func TestProfileDisplayName(t *testing.T) {
	p := &oauth.Profile{Name: "Octo Cat", Login: "octocat"}
	if p.DisplayName() != "Octo Cat" {
		t.Errorf("expected display name, got %q", p.DisplayName())
	}
	p.Name = ""
	if p.DisplayName() != "octocat" {
		t.Errorf("expected login fallback, got %q", p.DisplayName())
	}
}
