package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/editor-reset-control/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfigFile    = "EDITOR_RESET_CONFIG"
	envBridge        = "EDITOR_RESET_BRIDGE"
	envEditor        = "EDITOR_RESET_EDITOR"
	envTimeout       = "EDITOR_RESET_TIMEOUT"
	envProbeAttempts = "EDITOR_RESET_PROBE_ATTEMPTS"
	envHeartbeat     = "EDITOR_RESET_HEARTBEAT"
	envWidth         = "EDITOR_RESET_WIDTH"
	envHeight        = "EDITOR_RESET_HEIGHT"
	envShowFooter    = "EDITOR_RESET_FOOTER"
	envTrace         = "EDITOR_RESET_TRACE"
	envLogFile       = "EDITOR_RESET_LOG_FILE"
	envNoColor       = "EDITOR_RESET_NO_COLOR"
	envProjectURL    = "EDITOR_RESET_PROJECT_URL"
	envStdNoColor    = "NO_COLOR"
)

const (
	DefaultBridgeURL  = "ws://127.0.0.1:8765/rpc"
	DefaultProjectURL = "https://github.com/vagmr/Augment-free"
	DefaultTimeout    = 30 * time.Second

	headlessProbeAttempts = 5
)

// Load parses configuration from CLI arguments, environment variables and
// the optional config file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values resolve
// flag first, then environment, then config file, then built-in default.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path := envOrDefault(env, envConfigFile, "")
	if p, ok := scanConfigFlag(args); ok {
		path = p
	}
	file, err := readFile(path)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("editor-reset-control", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", path, "path to a YAML config file")
	bridgeURL := fs.String("bridge", envOrDefault(env, envBridge, file.stringOr(file.Bridge, DefaultBridgeURL)), "WebSocket URL of the bridge")
	editor := fs.String("editor", envOrDefault(env, envEditor, file.stringOr(file.Editor, "")), "editor target to select once the bridge is ready")
	timeout := fs.Duration("timeout", envOrDuration(env, envTimeout, file.durationOr(file.timeout, DefaultTimeout)), "timeout for a single bridge call (0 disables it)")
	probeAttempts := fs.Int("probe-attempts", envOrInt(env, envProbeAttempts, file.intOr(file.ProbeAttempts, -1)), "readiness probe attempts, 0 retries forever (default unbounded, 5 in headless mode)")
	heartbeat := fs.Duration("heartbeat", envOrDuration(env, envHeartbeat, file.durationOr(file.heartbeat, 0)), "re-probe interval once the bridge is ready (0 disables it)")
	width := fs.Int("width", envOrInt(env, envWidth, file.intOr(file.Width, 0)), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, file.intOr(file.Height, 0)), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, file.boolOr(file.Footer, true)), "show the key hint footer")
	trace := fs.Bool("trace", envOrBool(env, envTrace, file.boolOr(file.Trace, false)), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.stringOr(file.LogFile, "")), "path to the log file")
	noColor := fs.Bool("no-color", envOrBool(env, envNoColor, file.boolOr(file.NoColor, noColorDefault(env))), "disable coloured headless output")
	projectURL := fs.String("project-url", envOrDefault(env, envProjectURL, file.stringOr(file.ProjectURL, DefaultProjectURL)), "project page opened from the about panel")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *timeout < 0 {
		return Config{}, fmt.Errorf("timeout must be >= 0 (got %s)", *timeout)
	}
	if *heartbeat < 0 {
		return Config{}, fmt.Errorf("heartbeat must be >= 0 (got %s)", *heartbeat)
	}

	command := append([]string(nil), fs.Args()...)
	attempts := *probeAttempts
	if attempts < 0 {
		attempts = 0
		if len(command) > 0 {
			attempts = headlessProbeAttempts
		}
	}

	cfg := Config{
		App: app.Config{
			BridgeURL:     *bridgeURL,
			Editor:        *editor,
			Timeout:       *timeout,
			ProbeAttempts: attempts,
			Heartbeat:     *heartbeat,
			Width:         *width,
			Height:        *height,
			ShowFooter:    *footer,
			NoColor:       *noColor,
			ProjectURL:    *projectURL,
			Command:       command,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: path,
		Flags: map[string]string{
			"config":        path,
			"bridge":        *bridgeURL,
			"editor":        *editor,
			"timeout":       timeout.String(),
			"probeAttempts": strconv.Itoa(attempts),
			"heartbeat":     heartbeat.String(),
			"width":         strconv.Itoa(*width),
			"height":        strconv.Itoa(*height),
			"footer":        strconv.FormatBool(*footer),
			"trace":         strconv.FormatBool(*trace),
			"logFile":       *logFile,
			"noColor":       strconv.FormatBool(*noColor),
			"projectURL":    *projectURL,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// scanConfigFlag finds -config before the flag set is built, so the file can
// provide defaults for the other flags.
func scanConfigFlag(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return "", false
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v, true
		}
	}
	return "", false
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func noColorDefault(env map[string]string) bool {
	_, ok := env[envStdNoColor]
	return ok
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks values that parse fine but cannot work.
func Validate(cfg Config) error {
	u, err := url.Parse(cfg.App.BridgeURL)
	if err != nil {
		return fmt.Errorf("invalid bridge url %q: %w", cfg.App.BridgeURL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("bridge url must use ws or wss (got %q)", cfg.App.BridgeURL)
	}
	if u.Host == "" {
		return errors.New("bridge url has no host")
	}
	if cfg.App.ProbeAttempts < 0 {
		return fmt.Errorf("probe-attempts must be >= 0 (got %d)", cfg.App.ProbeAttempts)
	}
	if len(cfg.App.Command) > 0 {
		if err := app.ValidateCommand(cfg.App.Command); err != nil {
			return err
		}
	}
	return nil
}
