package linking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func testCredentials() Credentials {
	return Credentials{ClientID: "client-id", ClientSecret: "client-secret"}
}

func TestNewServiceRejectsIncompleteSetup(t *testing.T) {
	if _, err := NewService(Provider{}, testCredentials(), "https://api.hiya.gg/oauth/callback"); err == nil {
		t.Fatal("expected error for incomplete provider")
	}
	if _, err := NewService(Discord(), Credentials{}, "https://api.hiya.gg/oauth/callback"); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestAuthorizeURLCarriesFreshState(t *testing.T) {
	service, err := NewService(Discord(), testCredentials(), "https://api.hiya.gg/oauth/discord/callback")
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	first, firstState := service.AuthorizeURL()
	second, secondState := service.AuthorizeURL()

	if firstState == "" || firstState == secondState {
		t.Fatal("state tokens must be fresh per authorize URL")
	}

	parsed, err := url.Parse(first)
	if err != nil {
		t.Fatalf("authorize URL unparsable: %v", err)
	}
	query := parsed.Query()
	if query.Get("state") != firstState {
		t.Fatalf("state mismatch: %q vs %q", query.Get("state"), firstState)
	}
	if query.Get("client_id") != "client-id" {
		t.Fatalf("missing client id in %q", first)
	}
	if !strings.Contains(query.Get("scope"), "identify") {
		t.Fatalf("missing scope in %q", first)
	}
	if second == first {
		t.Fatal("authorize URLs with distinct states must differ")
	}
}

func TestExchangeAndIdentity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if r.FormValue("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-token","token_type":"Bearer"}`))
	})
	mux.HandleFunc("/api/v10/users/@me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer provider-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"123456","username":"alice","discriminator":"0"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	provider := Discord()
	provider.Endpoint = oauth2.Endpoint{
		AuthURL:   server.URL + "/oauth/authorize",
		TokenURL:  server.URL + "/oauth/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	provider.UserURL = server.URL + "/api/v10/users/@me"

	service, err := NewService(provider, testCredentials(), server.URL+"/callback")
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	ctx := context.Background()

	token, err := service.Exchange(ctx, "good-code")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}

	identity, err := service.Identity(ctx, token)
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}
	if identity.PlatformID != "123456" || identity.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	if _, err := service.Exchange(ctx, "bad-code"); err == nil {
		t.Fatal("expected exchange failure for bad code")
	} else if strings.Contains(err.Error(), "bad-code") {
		t.Fatalf("exchange error must not echo the code: %v", err)
	}
}

func TestReadDiscordIdentityLegacyDiscriminator(t *testing.T) {
	identity, err := readDiscordIdentity([]byte(`{"id":"9","username":"bob","discriminator":"0420"}`))
	if err != nil {
		t.Fatalf("readDiscordIdentity failed: %v", err)
	}
	if identity.Username != "bob#0420" {
		t.Fatalf("legacy discriminator not applied: %q", identity.Username)
	}
}

func TestReadGitHubIdentity(t *testing.T) {
	identity, err := readGitHubIdentity([]byte(`{"id":77,"login":"octo"}`))
	if err != nil {
		t.Fatalf("readGitHubIdentity failed: %v", err)
	}
	if identity.PlatformID != "77" || identity.Username != "octo" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	if _, err := readGitHubIdentity([]byte(`{}`)); err == nil {
		t.Fatal("expected error for empty identity")
	}
	if _, err := readGitHubIdentity([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestRegistryLookup(t *testing.T) {
	discord, err := NewService(Discord(), testCredentials(), "https://api.hiya.gg/cb")
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	github, err := NewService(GitHub(), testCredentials(), "https://api.hiya.gg/cb")
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	registry := NewRegistry(discord, github)

	if _, err := registry.Lookup("DiScOrD"); err != nil {
		t.Fatalf("case-insensitive lookup failed: %v", err)
	}
	if _, err := registry.Lookup("steam"); !errors.Is(err, ErrUnknownService) {
		t.Fatalf("expected ErrUnknownService, got %v", err)
	}
	if len(registry.Names()) != 2 {
		t.Fatalf("expected 2 registered services, got %v", registry.Names())
	}
}
