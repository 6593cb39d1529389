package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate creates a public playlist from track URIs.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	uris, err := r.trackURIs(cmd.StringSlice("uri"), cmd.String("uris-file"))
	if err != nil {
		return err
	}

	token, err := r.accessToken(ctx, cmd)
	if err != nil {
		return err
	}

	userID := cmd.String("user")
	if userID == "" {
		if _, user, ok := r.session.Get(); ok {
			userID = user.ID
		} else {
			user, err := r.spotifyClient().CurrentUser(ctx, token)
			if err != nil {
				return fmt.Errorf("failed to look up the token's user: %w", err)
			}
			userID = user.ID
		}
	}

	result, err := tasks.NewPublisher(r.spotifyClient(), r.logger).Publish(ctx, nil, tasks.PublishRequest{
		AccessToken: token,
		UserID:      userID,
		Name:        name,
		TrackURIs:   uris,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlain("✓ Created playlist %s\n", result.Playlist.Name)
	r.writePlain("  ID: %s\n", result.Playlist.ID)
	r.writePlain("  Tracks added: %d\n", result.TracksAdded)
	if result.Playlist.ExternalURL != "" {
		r.writePlain("  Open: %s\n", result.Playlist.ExternalURL)
	}
	return nil
}

// trackURIs merges --uri values with the lines of --uris-file, skipping blanks.
func (r *Runner) trackURIs(flagURIs []string, path string) ([]string, error) {
	uris := []string{}
	for _, u := range flagURIs {
		if u = strings.TrimSpace(u); u != "" {
			uris = append(uris, u)
		}
	}
	if path == "" {
		return uris, nil
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(r.input)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	for _, line := range shared.SplitLines(string(data)) {
		if line = strings.TrimSpace(line); line != "" {
			uris = append(uris, line)
		}
	}
	return uris, nil
}
