package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Identity is what the rest of the app consumes after sign-in: a stable id
// (provider subject, or email when the provider gives none) plus display
// fields. Nothing downstream ever talks to the provider again.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// OAuthProvider wraps one provider's authorization-code flow:
// redirect out with a state token, exchange the returned code
// server-to-server, then fetch the user profile with the access token.
type OAuthProvider struct {
	name    string
	config  *oauth2.Config
	userURL string
}

type AuthService struct {
	providers map[string]*OAuthProvider
}

// NewAuthService registers every provider that has credentials in the
// environment. An empty provider map just means no sign-in routes work,
// the public scoreboard read path is unaffected.
func NewAuthService(baseURL string) *AuthService {
	svc := &AuthService{providers: make(map[string]*OAuthProvider)}

	if id := os.Getenv("DISCORD_CLIENT_ID"); id != "" {
		svc.providers["discord"] = &OAuthProvider{
			name: "discord",
			config: &oauth2.Config{
				ClientID:     id,
				ClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
				RedirectURL:  baseURL + "/auth/discord/callback",
				Scopes:       []string{"identify", "email"},
				Endpoint:     discordEndpoint,
			},
			userURL: "https://discord.com/api/users/@me",
		}
	}

	if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" {
		svc.providers["google"] = &OAuthProvider{
			name: "google",
			config: &oauth2.Config{
				ClientID:     id,
				ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
				RedirectURL:  baseURL + "/auth/google/callback",
				Scopes:       []string{"openid", "profile", "email"},
				Endpoint:     google.Endpoint,
			},
			userURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		}
	}

	return svc
}

func (a *AuthService) Provider(name string) (*OAuthProvider, bool) {
	p, ok := a.providers[name]
	return p, ok
}

// AuthURL is where the browser gets redirected. The state token is echoed
// back by the provider and checked against the caller's cookie.
func (p *OAuthProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the user's profile.
func (p *OAuthProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging %s code: %w", p.name, err)
	}

	client := p.config.Client(ctx, tok)
	resp, err := client.Get(p.userURL)
	if err != nil {
		return nil, fmt.Errorf("auth: fetching %s profile: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: %s profile endpoint returned status %d", p.name, resp.StatusCode)
	}

	// Discord and Google disagree on field names; decode the union.
	var raw struct {
		ID         string `json:"id"`
		Username   string `json:"username"`    // discord
		GlobalName string `json:"global_name"` // discord
		Avatar     string `json:"avatar"`      // discord avatar hash
		Name       string `json:"name"`        // google
		Picture    string `json:"picture"`     // google
		Email      string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("auth: decoding %s profile: %w", p.name, err)
	}

	ident := &Identity{ID: raw.ID, Email: raw.Email}
	if ident.ID == "" {
		ident.ID = raw.Email
	}
	if ident.ID == "" {
		return nil, fmt.Errorf("auth: %s returned no usable identity", p.name)
	}

	switch {
	case raw.GlobalName != "":
		ident.Name = raw.GlobalName
	case raw.Username != "":
		ident.Name = raw.Username
	default:
		ident.Name = raw.Name
	}

	if raw.Picture != "" {
		ident.AvatarURL = raw.Picture
	} else if raw.Avatar != "" {
		ident.AvatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", raw.ID, raw.Avatar)
	}

	return ident, nil
}
