package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// Opener opens character images outside the terminal
type Opener struct {
	command string   // configured viewer command, empty for detection
	args    []string // additional arguments for the viewer
	logger  *slog.Logger

	lookPath func(file string) (string, error)
	start    func(name string, args ...string) error
}

// candidateViewers defines the preferred image viewer order for each platform.
// Entries prefixed "open-a:" are macOS applications.
var candidateViewers = map[string][]string{
	"darwin":  {"open-a:Preview"},
	"linux":   {"imv", "feh", "eog", "sxiv"},
	"windows": {},
}

// NewOpener creates an Opener. An empty command detects a viewer and falls
// back to the system default handler.
func NewOpener(command string, args []string, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		command:  command,
		args:     args,
		logger:   logger.With("component", "opener"),
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Open shows url in the configured viewer, a detected one, or the system default
func (o *Opener) Open(url string) error {
	if url == "" {
		return errors.New("no url to open")
	}

	// Tier 1: User configured a specific viewer
	if o.command != "" {
		args := append(append([]string{}, o.args...), url)
		o.logger.Info("opening with configured viewer", "command", o.command, "args", args)
		return o.start(o.command, args...)
	}

	// Tier 2: Try candidate chain
	if err := o.detectAndOpen(url); err == nil {
		return nil
	}

	// Tier 3: Fall back to system default (open/xdg-open/start)
	return o.openDefault(url)
}

// detectAndOpen tries candidate viewers in order
func (o *Opener) detectAndOpen(url string) error {
	candidates, ok := candidateViewers[runtime.GOOS]
	if !ok {
		candidates = candidateViewers["linux"]
	}

	for _, viewer := range candidates {
		var err error
		if app, ok := strings.CutPrefix(viewer, "open-a:"); ok {
			err = o.start("open", "-a", app, url)
		} else if _, err = o.lookPath(viewer); err == nil {
			err = o.start(viewer, url)
		}

		if err == nil {
			o.logger.Info("opened with detected viewer", "viewer", viewer)
			return nil
		}
		o.logger.Debug("viewer not available", "viewer", viewer, "error", err)
	}

	return fmt.Errorf("no candidate viewers found")
}

// openDefault opens the URL using the system default handler
func (o *Opener) openDefault(url string) error {
	o.logger.Info("opening with system default", "os", runtime.GOOS, "url", url)

	switch runtime.GOOS {
	case "darwin":
		return o.start("open", url)
	case "windows":
		return o.start("cmd", "/c", "start", "", url)
	default:
		// Linux and other Unix-like systems
		return o.start("xdg-open", url)
	}
}
