package main

import (
	"context"

	"github.com/desertthunder/setlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the example configuration to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlain("Fill in credentials.spotify or set SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET and SPOTIFY_REDIRECT_URI.\n")
	return nil
}

// ConfigShow prints the resolved configuration with the secrets masked.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	masked := *r.config
	masked.Credentials.Spotify.ClientSecret = mask(masked.Credentials.Spotify.ClientSecret)
	masked.Server.SessionSecret = mask(masked.Server.SessionSecret)
	return r.writeJSON(masked, true)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
