package shared

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func stubBrowser(t *testing.T, goos string, found map[string]bool) *[]*exec.Cmd {
	t.Helper()
	origRuntime, origLook, origStart := getRuntime, lookPath, startCmd
	t.Cleanup(func() { getRuntime, lookPath, startCmd = origRuntime, origLook, origStart })

	started := []*exec.Cmd{}
	getRuntime = func() string { return goos }
	lookPath = func(name string) (string, error) {
		if found[name] {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
	startCmd = func(c *exec.Cmd) error {
		started = append(started, c)
		return nil
	}
	return &started
}

func TestOpenBrowser(t *testing.T) {
	const consent = "https://accounts.spotify.com/authorize?client_id=abc"

	t.Run("rejects non-web URLs", func(t *testing.T) {
		stubBrowser(t, "linux", map[string]bool{"xdg-open": true})
		t.Setenv("BROWSER", "")

		for _, raw := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "/relative"} {
			if err := OpenBrowser(raw); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("OpenBrowser(%q): expected ErrInvalidArgument, got %v", raw, err)
			}
		}
	})

	t.Run("platform openers", func(t *testing.T) {
		tc := []struct {
			goos  string
			found map[string]bool
			want  string
		}{
			{"darwin", nil, "open"},
			{"windows", nil, "rundll32"},
			{"linux", map[string]bool{"xdg-open": true}, "xdg-open"},
			{"linux", map[string]bool{"x-www-browser": true}, "x-www-browser"},
		}
		for _, c := range tc {
			t.Run(c.goos+"/"+c.want, func(t *testing.T) {
				started := stubBrowser(t, c.goos, c.found)
				t.Setenv("BROWSER", "")

				if err := OpenBrowser(consent); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if len(*started) != 1 {
					t.Fatalf("expected one command, got %d", len(*started))
				}
				cmd := (*started)[0]
				if filepath.Base(cmd.Args[0]) != c.want {
					t.Errorf("expected %s, got %v", c.want, cmd.Args)
				}
				if cmd.Args[len(cmd.Args)-1] != consent {
					t.Errorf("expected URL as last argument, got %v", cmd.Args)
				}
			})
		}
	})

	t.Run("BROWSER overrides the platform", func(t *testing.T) {
		started := stubBrowser(t, "plan9", nil)
		t.Setenv("BROWSER", "my-browser")

		if err := OpenBrowser(consent); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if (*started)[0].Args[0] != "my-browser" {
			t.Errorf("expected $BROWSER, got %v", (*started)[0].Args)
		}
	})

	t.Run("no linux opener", func(t *testing.T) {
		stubBrowser(t, "linux", nil)
		t.Setenv("BROWSER", "")

		err := OpenBrowser(consent)
		if err == nil || !strings.Contains(err.Error(), "set $BROWSER") {
			t.Errorf("expected missing opener error, got %v", err)
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		stubBrowser(t, "plan9", nil)
		t.Setenv("BROWSER", "")

		err := OpenBrowser(consent)
		if err == nil || !strings.Contains(err.Error(), "unsupported platform: plan9") {
			t.Errorf("expected unsupported platform error, got %v", err)
		}
	})

	t.Run("start failure", func(t *testing.T) {
		stubBrowser(t, "darwin", nil)
		startCmd = func(*exec.Cmd) error { return errors.New("boom") }
		t.Setenv("BROWSER", "")

		err := OpenBrowser(consent)
		if err == nil || !strings.Contains(err.Error(), "failed to open browser") {
			t.Errorf("expected start error, got %v", err)
		}
	})
}
