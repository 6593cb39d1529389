// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the JSON API server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API for the browser client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to bind (overrides server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides server.port and PORT)",
			},
		},
		Action: r.Serve,
	}
}

// loginCommand runs the authorization code flow against a local callback server
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Authenticate with Spotify in the browser and print the session",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the session as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL instead of opening a browser",
			},
			&cli.DurationFlag{
				Name:  "wait",
				Usage: "How long to wait for the browser callback",
				Value: loginWait,
			},
		},
		Action: r.Login,
	}
}

// searchCommand resolves song lines to tracks
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Resolve song names (one per line) to Spotify tracks",
		ArgsUsage: "[song names...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read song names from a file (default: arguments, then stdin)",
			},
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "Spotify access token",
				Sources: cli.EnvVars("SETLIST_ACCESS_TOKEN"),
			},
			&cli.BoolFlag{
				Name:  "login",
				Usage: "Log in first and use the new session's token",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text, json, csv, markdown, uris",
				Value: "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write results to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Print each match as it completes",
			},
		},
		Action: r.Search,
	}
}

// playlistCommand handles playlist operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a public playlist and add tracks to it",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "uri",
						Usage: "Track URI to add (repeatable)",
					},
					&cli.StringFlag{
						Name:  "uris-file",
						Usage: "File with one track URI per line ('-' for stdin)",
					},
					&cli.StringFlag{
						Name:    "token",
						Aliases: []string{"t"},
						Usage:   "Spotify access token",
						Sources: cli.EnvVars("SETLIST_ACCESS_TOKEN"),
					},
					&cli.BoolFlag{
						Name:  "login",
						Usage: "Log in first and use the new session's token",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "Owner user id (default: the token's user)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistCreate,
			},
		},
	}
}

// configCommand handles configuration files
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write a config.toml template to the --config path",
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the resolved configuration with secrets masked",
				Action: r.ConfigShow,
			},
		},
	}
}
