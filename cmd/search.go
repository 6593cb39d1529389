package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Search resolves song names read from --file, the arguments, or stdin.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	lines, err := r.readLines(cmd.String("file"), cmd.Args().Slice())
	if err != nil {
		return err
	}

	token, err := r.accessToken(ctx, cmd)
	if err != nil {
		return err
	}

	var progress chan tasks.ProgressUpdate
	done := make(chan struct{})
	if cmd.Bool("progress") {
		progress = make(chan tasks.ProgressUpdate, len(lines))
		go func() {
			defer close(done)
			for u := range progress {
				fmt.Fprintf(r.errOutput, "[%d/%d] %s\n", u.Step, u.Total, u.Message)
			}
		}()
	} else {
		close(done)
	}

	result, err := r.resolver().Resolve(ctx, progress, lines, token)
	if progress != nil {
		close(progress)
	}
	<-done
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(result, format, path); err != nil {
			return err
		}
		r.logger.Info("results written", "path", path, "found", result.Found, "total", result.Total)
		return r.writePlain("✓ Found %d of %d tracks, saved to %s\n", result.Found, result.Total, path)
	}

	data, err := formatter.Render(result, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// accessToken takes --token (or SETLIST_ACCESS_TOKEN), then a --login flow, then the held session.
func (r *Runner) accessToken(ctx context.Context, cmd *cli.Command) (string, error) {
	if token := cmd.String("token"); token != "" {
		return token, nil
	}

	if cmd.Bool("login") {
		if _, err := r.login(ctx, true, loginWait); err != nil {
			return "", err
		}
	}

	if token := r.session.AccessToken(); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("%w: pass --token, set SETLIST_ACCESS_TOKEN, or use --login", shared.ErrAuthRequired)
}

// readLines returns the raw song lines; blank ones are dropped later by the resolver.
func (r *Runner) readLines(path string, args []string) ([]string, error) {
	switch {
	case path != "" && path != "-":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		return shared.SplitLines(string(data)), nil
	case path == "" && len(args) > 0:
		return args, nil
	}

	data, err := io.ReadAll(r.input)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("%w: no song names given", shared.ErrMissingArgument)
	}
	return shared.SplitLines(string(data)), nil
}
