// Package auth implements the Spotify authorization-code flow.
//
// [Controller.LoginURL] builds the redirect to the authorize endpoint. [Controller.Exchange] trades a
// single-use authorization code for an access token and then, in the same call, fetches the identity
// the token belongs to. Callers only ever see both together in a [models.Session], or an error
// wrapping [shared.ErrAuthExchange].
//
// The controller holds no session state. Storing the result is the caller's job.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/oauth2"
)

// Scopes requested at login: create public and private playlists and read the profile.
var Scopes = []string{
	"playlist-modify-public",
	"playlist-modify-private",
	"user-read-private",
}

// IdentityFetcher resolves the user an access token was issued for.
type IdentityFetcher interface {
	CurrentUser(ctx context.Context, accessToken string) (*models.User, error)
}

// ControllerOpts contains optional settings for a [Controller].
type ControllerOpts struct {
	HTTPClient *http.Client  // Client for the token endpoint (default: 10s timeout)
	Timeout    time.Duration // Per-call bound for the exchange and identity fetch
	AuthURL    string        // Authorize endpoint override
	TokenURL   string        // Token endpoint override
	Logger     *log.Logger
}

// Controller orchestrates login redirects and the code-for-session exchange.
type Controller struct {
	config     *oauth2.Config
	identity   IdentityFetcher
	httpClient *http.Client
	timeout    time.Duration
	logger     *log.Logger
}

// NewController validates the Spotify credentials and builds a [Controller].
//
// A missing client id, secret, or redirect URI is reported as [shared.ErrConfiguration] so callers
// can refuse to start instead of failing on the first login.
func NewController(creds shared.SpotifyConfig, identity IdentityFetcher, opts ControllerOpts) (*Controller, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.RedirectURI == "" {
		return nil, fmt.Errorf("%w: spotify client_id, client_secret and redirect_uri are required", shared.ErrConfiguration)
	}
	if identity == nil {
		return nil, fmt.Errorf("%w: identity fetcher is required", shared.ErrConfiguration)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = services.DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = services.NewHTTPClient(opts.Timeout)
	}
	if opts.AuthURL == "" {
		opts.AuthURL = services.SpotifyAuthURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = services.SpotifyTokenURL
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	config := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   opts.AuthURL,
			TokenURL:  opts.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return &Controller{
		config:     config,
		identity:   identity,
		httpClient: opts.HTTPClient,
		timeout:    opts.Timeout,
		logger:     shared.WithLogger(opts.Logger, "component", "auth"),
	}, nil
}

// LoginURL returns the authorize endpoint URL with response_type=code, client_id, redirect_uri and
// the space-joined scopes. state is only added when non-empty.
func (c *Controller) LoginURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a [models.Session].
//
// The identity fetch runs only after the token exchange succeeds and uses the fresh token. A failure
// in either step wraps [shared.ErrAuthExchange]; no token is returned without its user.
func (c *Controller) Exchange(ctx context.Context, code string) (*models.Session, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", shared.ErrAuthExchange)
	}

	token, err := c.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	identityCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	user, err := c.identity.CurrentUser(identityCtx, token.AccessToken)
	if err != nil {
		c.logger.Error("identity fetch failed after token exchange", "error", err)
		return nil, fmt.Errorf("%w: failed to fetch user profile: %v", shared.ErrAuthExchange, err)
	}

	c.logger.Info("user authenticated", "user", user.ID)

	return &models.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		User:         user,
	}, nil
}

func (c *Controller) exchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		detail := err.Error()
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorDescription != "" {
			detail = retrieveErr.ErrorDescription
		}
		c.logger.Error("token exchange failed", "error", detail)
		return nil, fmt.Errorf("%w: token exchange: %s", shared.ErrAuthExchange, detail)
	}

	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response missing access_token", shared.ErrAuthExchange)
	}
	return token, nil
}
