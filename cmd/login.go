package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/server"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/urfave/cli/v3"
)

const loginWait = 2 * time.Minute

// Login runs the browser flow and prints the resulting identity and token.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.login(ctx, !cmd.Bool("no-browser"), cmd.Duration("wait"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(sess, true)
	}

	r.writePlainln("✓ Logged in as %s (%s)", displayName(sess.User), sess.User.ID)
	r.writePlain("Access token (valid for one hour):\n%s\n\n", sess.AccessToken)
	r.writePlain("Use it with: SETLIST_ACCESS_TOKEN=<token> setlist search -f songs.txt\n")
	return nil
}

// login serves the redirect URI locally, sends the user to the consent page, and waits for the callback.
// The session is kept in the runner's holder for the rest of the process.
func (r *Runner) login(ctx context.Context, browser bool, wait time.Duration) (*models.Session, error) {
	controller, err := r.controller()
	if err != nil {
		return nil, err
	}

	redirect, err := url.Parse(r.config.Credentials.Spotify.RedirectURI)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("%w: redirect_uri %q is not an absolute URL", shared.ErrConfiguration, r.config.Credentials.Spotify.RedirectURI)
	}

	state := shared.GenerateState()
	callback := server.NewCallbackHandler(controller, state, redirect.Path)
	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger))
	router.Handler(callback)

	ln, err := net.Listen("tcp", listenAddr(redirect))
	if err != nil {
		return nil, fmt.Errorf("failed to listen for the login callback: %w", err)
	}

	httpServer := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Debug("starting callback server", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down callback server", "error", err)
		}
	}()

	authURL := controller.LoginURL(state)
	if browser {
		r.writePlain("→ Opening browser for Spotify login...\n")
		if err := r.openBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser automatically", "error", err)
			browser = false
		}
	}
	if !browser {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	}

	if wait <= 0 {
		wait = loginWait
	}
	r.writePlain("→ Waiting for authorization (%s timeout)...\n", wait)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	var result server.CallbackResult
	select {
	case result = <-callback.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("callback server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: no authorization after %s", shared.ErrTimeout, wait)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := result.Error(); err != nil {
		r.session.Clear()
		return nil, err
	}

	r.session.SetSession(result.Session)
	r.logger.Info("logged in", "user", result.Session.User.ID)
	return result.Session, nil
}

// listenAddr is host:port of the redirect URI, with the scheme's default port when none is given.
func listenAddr(u *url.URL) string {
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port)
}

func displayName(u *models.User) string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.ID
}
