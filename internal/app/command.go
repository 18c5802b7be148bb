package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/editor-reset-control/internal/operation"
)

// Headless command names.
const (
	CmdRun     = "run"
	CmdDetect  = "detect"
	CmdInfo    = "info"
	CmdOps     = "ops"
	CmdStatus  = "status"
	CmdVersion = "version"
	CmdOpen    = "open"

	runAll = "all"
)

// ErrUsage is wrapped by every command parsing error.
var ErrUsage = errors.New("usage")

// Command is a parsed headless invocation.
type Command struct {
	Name string
	// All is set for "run all"; Kind holds the operation otherwise.
	All  bool
	Kind operation.Kind
	URL  string
}

// ParseCommand reads positional arguments into a Command.
func ParseCommand(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, fmt.Errorf("%w: no command given", ErrUsage)
	}
	name := strings.ToLower(args[0])
	rest := args[1:]
	switch name {
	case CmdRun:
		if len(rest) != 1 {
			return Command{}, fmt.Errorf("%w: run telemetry|database|workspace|all", ErrUsage)
		}
		if strings.EqualFold(rest[0], runAll) {
			return Command{Name: name, All: true}, nil
		}
		k, err := operation.Parse(rest[0])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return Command{Name: name, Kind: k}, nil
	case CmdDetect, CmdInfo, CmdOps, CmdStatus, CmdVersion:
		if len(rest) != 0 {
			return Command{}, fmt.Errorf("%w: %s takes no arguments", ErrUsage, name)
		}
		return Command{Name: name}, nil
	case CmdOpen:
		if len(rest) != 1 || strings.TrimSpace(rest[0]) == "" {
			return Command{}, fmt.Errorf("%w: open <url>", ErrUsage)
		}
		return Command{Name: name, URL: rest[0]}, nil
	default:
		return Command{}, fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

// ValidateCommand reports whether args form a valid headless command.
func ValidateCommand(args []string) error {
	_, err := ParseCommand(args)
	return err
}

// needsEditor reports whether the preferred editor is committed before the
// command runs.
func (c Command) needsEditor() bool {
	switch c.Name {
	case CmdRun, CmdInfo, CmdOps:
		return true
	default:
		return false
	}
}
