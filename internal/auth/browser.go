// Package auth helps the user obtain a GitHub token.
package auth

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// TokenSettingsURL is the GitHub page for creating a classic personal access token
const TokenSettingsURL = "https://github.com/settings/tokens/new"

// TokenCreationURL returns the token creation page with the repo scope
// preselected and the given note filled in
func TokenCreationURL(note string) string {
	query := url.Values{}
	query.Set("scopes", "repo")
	if note != "" {
		query.Set("description", note)
	}
	return TokenSettingsURL + "?" + query.Encode()
}

// BrowserOpener defines the interface for opening URLs in the default browser
type BrowserOpener interface {
	Open(url string) error
}

// DefaultBrowserOpener implements cross-platform browser opening
type DefaultBrowserOpener struct {
	goos string
}

// NewBrowserOpener creates a new browser opener for the running platform
func NewBrowserOpener() *DefaultBrowserOpener {
	return &DefaultBrowserOpener{goos: runtime.GOOS}
}

// Open opens the specified URL in the default browser
func (b *DefaultBrowserOpener) Open(url string) error {
	name, args, err := openCommand(b.goos, url)
	if err != nil {
		return err
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

func openCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "cmd", []string{"/c", "start", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
