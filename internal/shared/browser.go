package shared

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
)

var (
	getRuntime = func() string { return runtime.GOOS }
	lookPath   = exec.LookPath
	startCmd   = func(c *exec.Cmd) error { return c.Start() }
)

// linuxOpeners are tried in order when $BROWSER is unset.
var linuxOpeners = []string{"xdg-open", "sensible-browser", "x-www-browser", "wslview"}

// OpenBrowser sends the user to the consent page in their default browser.
//
// Only absolute http(s) URLs are opened. $BROWSER wins over the platform opener.
func OpenBrowser(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: refusing to open %q", ErrInvalidArgument, rawURL)
	}

	cmd, err := browserCommand(rawURL)
	if err != nil {
		return err
	}

	if err := startCmd(cmd); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

func browserCommand(rawURL string) (*exec.Cmd, error) {
	if browser := os.Getenv("BROWSER"); browser != "" {
		return exec.Command(browser, rawURL), nil
	}

	switch rt := getRuntime(); rt {
	case "darwin":
		return exec.Command("open", rawURL), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		for _, name := range linuxOpeners {
			if path, err := lookPath(name); err == nil {
				return exec.Command(path, rawURL), nil
			}
		}
		return nil, fmt.Errorf("no browser opener found (tried %v); set $BROWSER", linuxOpeners)
	default:
		return nil, fmt.Errorf("unsupported platform: %s", rt)
	}
}
