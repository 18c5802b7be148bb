// Package opener opens project links, through the bridge when it is
// connected and with the platform's URL handler otherwise.
package opener

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/logging/events"
)

const (
	ViaBridge = "bridge"
	ViaLocal  = "local"
)

// Links are the project pages reachable from the about panel.
type Links struct {
	Repo     string
	Releases string
	Issues   string
}

// ProjectLinks derives the links from the repository URL.
func ProjectLinks(repo string) Links {
	repo = strings.TrimRight(repo, "/")
	return Links{
		Repo:     repo,
		Releases: repo + "/releases",
		Issues:   repo + "/issues",
	}
}

// Launcher starts an external command without waiting for it.
type Launcher func(name string, args ...string) error

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Command returns the URL handler invocation for goos.
func Command(goos, url string) (string, []string, error) {
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

type Opener struct {
	goos   string
	launch Launcher
}

func New() *Opener {
	return &Opener{goos: runtime.GOOS, launch: startCommand}
}

// WithLauncher returns an opener that runs commands through launch as if it
// were on goos.
func WithLauncher(goos string, launch Launcher) *Opener {
	return &Opener{goos: goos, launch: launch}
}

// Local opens url with the platform handler.
func (o *Opener) Local(url string) error {
	name, args, err := Command(o.goos, url)
	if err != nil {
		return err
	}
	if err := o.launch(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// Open asks the bridge to open url and falls back to the local handler when
// the bridge cannot be reached. An application failure from the bridge is
// returned as is.
func (o *Opener) Open(ctx context.Context, client bridge.Client, url string) (string, error) {
	if client != nil {
		res, err := client.OpenExternalLink(ctx, url)
		if err == nil {
			if !res.Success {
				err = errors.New(firstNonEmpty(res.Error, res.Message, "bridge refused to open link"))
				events.Link.Error(url, err)
				return ViaBridge, err
			}
			events.Link.Open(url, ViaBridge)
			return ViaBridge, nil
		}
		events.Link.Error(url, err)
	}
	if err := o.Local(url); err != nil {
		events.Link.Error(url, err)
		return ViaLocal, err
	}
	events.Link.Open(url, ViaLocal)
	return ViaLocal, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
