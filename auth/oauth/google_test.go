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

var _ oauth.Provider = (*oauth.GoogleProvider)(nil)

func newGoogleProvider(t *testing.T, opts ...oauth.Option) *oauth.GoogleProvider {
	t.Helper()
	p, err := oauth.NewGoogleProvider(oauth.Config{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		RedirectURL:  "https://example.com/api/auth/google/callback",
	}, opts...)
	if err != nil {
		t.Fatalf("NewGoogleProvider failed: %v", err)
	}
	return p
}

func TestNewGoogleProviderValidation(t *testing.T) {
	_, err := oauth.NewGoogleProvider(oauth.Config{ClientSecret: "s"})
	if !errors.Is(err, oauth.ErrMissingClientID) {
		t.Errorf("expected ErrMissingClientID, got %v", err)
	}
	_, err = oauth.NewGoogleProvider(oauth.Config{ClientID: "id"})
	if !errors.Is(err, oauth.ErrMissingClientSecret) {
		t.Errorf("expected ErrMissingClientSecret, got %v", err)
	}
}

func TestGoogleAuthCodeURL(t *testing.T) {
	p := newGoogleProvider(t)
	u := p.AuthCodeURL("")

	if !strings.HasPrefix(u, "https://accounts.google.com/o/oauth2/auth") {
		t.Errorf("unexpected authorize endpoint: %q", u)
	}
	for _, want := range []string{
		"client_id=test-id",
		"access_type=offline",
		"prompt=consent",
		"scope=profile+email",
		"response_type=code",
	} {
		if !strings.Contains(u, want) {
			t.Errorf("expected %q in %q", want, u)
		}
	}
}

func TestGoogleExchange(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "goog-test-token",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		}))
		p := newGoogleProvider(t, oauth.WithHTTPClient(client))

		token, err := p.Exchange(context.Background(), "test-code")
		if err != nil {
			t.Fatalf("Exchange failed: %v", err)
		}
		if token.AccessToken != "goog-test-token" {
			t.Errorf("expected 'goog-test-token', got %q", token.AccessToken)
		}
	})

	t.Run("rejected code", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
		}))
		p := newGoogleProvider(t, oauth.WithHTTPClient(client))

		_, err := p.Exchange(context.Background(), "bad-code")
		if !errors.Is(err, oauth.ErrExchangeFailed) {
			t.Errorf("expected ErrExchangeFailed, got %v", err)
		}
	})
}

func TestGoogleFetchProfile(t *testing.T) {
	token := &oauth2.Token{AccessToken: "test-token"}

	t.Run("success", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/oauth2/v1/userinfo", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{
				"email": "learner@example.com",
				"name":  "Learner One",
			})
		})
		p := newGoogleProvider(t, oauth.WithHTTPClient(testClient(t, mux)))

		profile, err := p.FetchProfile(context.Background(), token)
		if err != nil {
			t.Fatalf("FetchProfile failed: %v", err)
		}
		if profile.Email != "learner@example.com" || profile.Name != "Learner One" {
			t.Errorf("unexpected profile: %+v", profile)
		}
		if !profile.Verified {
			t.Error("google emails are taken as verified")
		}
	})

	t.Run("non-OK status", func(t *testing.T) {
		p := newGoogleProvider(t, oauth.WithHTTPClient(testClient(t,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))))

		_, err := p.FetchProfile(context.Background(), token)
		if !errors.Is(err, oauth.ErrRequestFailed) {
			t.Errorf("expected ErrRequestFailed, got %v", err)
		}
	})

	t.Run("bad JSON", func(t *testing.T) {
		p := newGoogleProvider(t, oauth.WithHTTPClient(testClient(t,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte("not-json"))
			}))))

		_, err := p.FetchProfile(context.Background(), token)
		if !errors.Is(err, oauth.ErrDecodeFailed) {
			t.Errorf("expected ErrDecodeFailed, got %v", err)
		}
	})
}
