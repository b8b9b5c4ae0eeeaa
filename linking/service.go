package linking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// ErrUnknownService is returned by [Registry.Lookup] for unconfigured providers.
var ErrUnknownService = errors.New("unknown linking service")

const maxIdentityBody = 1 << 20

// Identity is the provider-side identity recorded for a connection.
type Identity struct {
	PlatformID string
	Username   string
}

// Provider describes one OAuth provider: its endpoints, requested scopes, and
// how to read an identity from its user endpoint.
type Provider struct {
	Name     string
	Scopes   []string
	Endpoint oauth2.Endpoint
	// UserURL is the endpoint queried with the exchanged token to resolve the
	// identity.
	UserURL string
	// ReadIdentity decodes the UserURL response body.
	ReadIdentity func(body []byte) (*Identity, error)
}

// Credentials are the client id/secret issued by the provider.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Service is one provider wired with credentials and a redirect URL.
type Service struct {
	provider Provider
	config   *oauth2.Config
}

// NewService binds provider to creds. redirectURL is the callback this
// application registered with the provider.
func NewService(provider Provider, creds Credentials, redirectURL string) (*Service, error) {
	if provider.Name == "" || provider.UserURL == "" || provider.ReadIdentity == nil {
		return nil, errors.New("incomplete provider definition")
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("missing credentials for %s", provider.Name)
	}

	return &Service{
		provider: provider,
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     provider.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       provider.Scopes,
		},
	}, nil
}

// Name returns the provider name.
func (s *Service) Name() string { return s.provider.Name }

// AuthorizeURL builds the provider authorize URL with a fresh state token.
// Callers must persist the state and verify it on callback.
func (s *Service) AuthorizeURL() (url, state string) {
	state = uuid.NewString()
	return s.config.AuthCodeURL(state), state
}

// Exchange trades a callback code for a provider token.
func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		// Deliberately coarse: exchange errors can echo request parameters.
		return nil, fmt.Errorf("code exchange with %s failed", s.provider.Name)
	}
	return token, nil
}

// Identity queries the provider's user endpoint with token and returns the
// connection identity.
func (s *Service) Identity(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	client := s.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.provider.UserURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity lookup with %s failed", s.provider.Name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity lookup with %s failed: status %d", s.provider.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIdentityBody))
	if err != nil {
		return nil, err
	}

	return s.provider.ReadIdentity(body)
}

// Registry holds the configured services, looked up by case-insensitive name.
type Registry struct {
	services map[string]*Service
}

// NewRegistry indexes services by name.
func NewRegistry(services ...*Service) *Registry {
	r := &Registry{services: make(map[string]*Service, len(services))}
	for _, s := range services {
		r.services[strings.ToLower(s.Name())] = s
	}
	return r
}

// Lookup returns the service registered under name.
func (r *Registry) Lookup(name string) (*Service, error) {
	s, ok := r.services[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, name)
	}
	return s, nil
}

// Names lists the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.services))
	for _, s := range r.services {
		names = append(names, s.Name())
	}
	return names
}

func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("malformed identity response: %w", err)
	}
	return nil
}
