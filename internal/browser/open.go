// Package browser hands order links to the desktop's default browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsupportedLink is returned for links that are not absolute http(s) URLs.
var ErrUnsupportedLink = errors.New("unsupported link")

// Open validates link and opens it in the user's default browser. Order
// links come from other participants, so only http and https are launched.
func Open(link string) error {
	if err := Validate(link); err != nil {
		return err
	}
	cmd, err := command(runtime.GOOS, link)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Validate reports whether link is an absolute http or https URL with a host.
func Validate(link string) error {
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedLink, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrUnsupportedLink, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrUnsupportedLink)
	}
	return nil
}

func command(goos, link string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", link), nil
	case "linux":
		return exec.Command("xdg-open", link), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", link), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}
