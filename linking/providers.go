package linking

import (
	"errors"
	"strconv"

	"golang.org/x/oauth2"
)

// Discord is the Discord provider definition.
func Discord() Provider {
	return Provider{
		Name:   "discord",
		Scopes: []string{"identify"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://discord.com/api/oauth2/authorize",
			TokenURL: "https://discord.com/api/oauth2/token",
		},
		UserURL:      "https://discord.com/api/v10/users/@me",
		ReadIdentity: readDiscordIdentity,
	}
}

func readDiscordIdentity(body []byte) (*Identity, error) {
	var user struct {
		ID            string `json:"id"`
		Username      string `json:"username"`
		Discriminator string `json:"discriminator"`
	}
	if err := decodeJSON(body, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, errors.New("discord identity missing id")
	}

	username := user.Username
	// Legacy accounts still carry a non-zero discriminator.
	if user.Discriminator != "" && user.Discriminator != "0" {
		username += "#" + user.Discriminator
	}

	return &Identity{PlatformID: user.ID, Username: username}, nil
}

// GitHub is the GitHub provider definition.
func GitHub() Provider {
	return Provider{
		Name:   "github",
		Scopes: []string{"read:user"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://github.com/login/oauth/authorize",
			TokenURL: "https://github.com/login/oauth/access_token",
		},
		UserURL:      "https://api.github.com/user",
		ReadIdentity: readGitHubIdentity,
	}
}

func readGitHubIdentity(body []byte) (*Identity, error) {
	var user struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
	}
	if err := decodeJSON(body, &user); err != nil {
		return nil, err
	}
	if user.ID == 0 || user.Login == "" {
		return nil, errors.New("github identity missing id or login")
	}

	return &Identity{PlatformID: strconv.FormatInt(user.ID, 10), Username: user.Login}, nil
}
