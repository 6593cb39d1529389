package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/setlist/internal/server"
	"github.com/desertthunder/setlist/internal/session"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve starts the JSON API and blocks until the context is cancelled.
//
// Missing credentials stop the server before it binds.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = port
	}

	handler, err := r.apiHandler()
	if err != nil {
		return err
	}

	srv := server.NewServer(r.config.Server.Addr(), handler, r.logger)
	r.logger.Info("starting setlist API", "addr", srv.Addr(), "origins", r.config.Server.AllowedOrigins)
	return srv.Run(ctx)
}

// apiHandler wires the API with its middleware stack.
func (r *Runner) apiHandler() (http.Handler, error) {
	controller, err := r.controller()
	if err != nil {
		return nil, fmt.Errorf("refusing to start: %w", err)
	}

	if r.config.Server.SessionSecret == "" {
		r.logger.Warn("no session secret configured, sessions will not survive a restart")
	}
	secure := strings.HasPrefix(r.config.Credentials.Spotify.RedirectURI, "https://")

	api := server.NewAPI(server.APIOpts{
		Auth:      controller,
		Resolver:  r.resolver(),
		Publisher: tasks.NewPublisher(r.spotifyClient(), r.logger),
		Sessions:  session.NewStore(r.config.Server.SessionSecret, secure),
		Logger:    r.logger,
	})

	router := server.NewBasicRouter()
	router.Use(
		server.RequestID(),
		server.Logging(r.logger),
		server.Metrics(),
		server.Recover(r.logger),
		server.CORS(r.config.Server.AllowedOrigins),
	)
	api.Register(router)
	return router, nil
}
