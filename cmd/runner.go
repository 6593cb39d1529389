package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/auth"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/session"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	spotify     *services.SpotifyClient
	httpClient  *http.Client
	authOpts    auth.ControllerOpts
	logger      *log.Logger
	output      io.Writer
	errOutput   io.Writer
	input       io.Reader
	session     *session.Holder
	openBrowser func(url string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config // Loaded from --config when nil
	Spotify     *services.SpotifyClient
	HTTPClient  *http.Client
	AuthOpts    auth.ControllerOpts // Endpoint overrides for the token exchange
	Logger      *log.Logger
	Output      io.Writer
	ErrOutput   io.Writer // Progress lines (default: stderr)
	Input       io.Reader
	OpenBrowser func(url string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		spotify:     opts.Spotify,
		httpClient:  opts.HTTPClient,
		authOpts:    opts.AuthOpts,
		logger:      opts.Logger,
		output:      opts.Output,
		errOutput:   opts.ErrOutput,
		input:       opts.Input,
		session:     &session.Holder{},
		openBrowser: opts.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, loginCommand, searchCommand, playlistCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads configuration for every command and applies --verbose.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.config != nil {
		return ctx, nil
	}

	config, err := shared.ResolveConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	r.config = config
	return ctx, nil
}

// spotifyClient returns the injected client or builds one from config.
func (r *Runner) spotifyClient() *services.SpotifyClient {
	if r.spotify == nil {
		client := r.httpClient
		if client == nil {
			client = services.NewHTTPClient(r.config.HTTP.Timeout.Duration)
		}
		r.spotify = services.NewSpotifyClient("", client)
	}
	return r.spotify
}

// controller builds the auth flow controller, failing fast on missing credentials.
func (r *Runner) controller() (*auth.Controller, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	opts := r.authOpts
	if opts.Timeout <= 0 {
		opts.Timeout = r.config.HTTP.Timeout.Duration
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = r.httpClient
	}
	opts.Logger = r.logger

	return auth.NewController(r.config.Credentials.Spotify, r.spotifyClient(), opts)
}

func (r *Runner) resolver() *tasks.Resolver {
	return tasks.NewResolver(r.spotifyClient(), tasks.ResolverOpts{
		Concurrency: r.config.Search.Concurrency,
		RateLimit:   r.config.Search.RateLimit,
		Timeout:     r.config.HTTP.Timeout.Duration,
		Logger:      r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
