// Package browser opens web pages and generated files with the system's
// default application.
package browser

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// start launches the opener without waiting for it. Tests replace it.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start() // #nosec G204 -- target validated by Open
}

// Open opens target with the default application. Target is either an
// existing local file or an http(s) URL; anything else is rejected before a
// command is built.
func Open(target string) error {
	resolved, err := resolve(target)
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd":
		return start("xdg-open", resolved)
	case "darwin":
		return start("open", resolved)
	case "windows":
		return start("rundll32", "url.dll,FileProtocolHandler", resolved)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func resolve(target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("invalid target: empty")
	}

	if info, err := os.Stat(target); err == nil {
		if !info.Mode().IsRegular() {
			return "", fmt.Errorf("not a regular file: %s", target)
		}
		return filepath.Abs(target)
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %q (only http, https and existing files allowed)", parsed.Scheme)
	}
	return parsed.String(), nil
}
