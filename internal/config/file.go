package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the flags in a YAML file. Unset keys stay nil so the
// next source in line applies.
type fileConfig struct {
	Bridge        *string `yaml:"bridge"`
	Editor        *string `yaml:"editor"`
	Timeout       *string `yaml:"timeout"`
	ProbeAttempts *int    `yaml:"probe_attempts"`
	Heartbeat     *string `yaml:"heartbeat"`
	Width         *int    `yaml:"width"`
	Height        *int    `yaml:"height"`
	Footer        *bool   `yaml:"footer"`
	Trace         *bool   `yaml:"trace"`
	LogFile       *string `yaml:"log_file"`
	NoColor       *bool   `yaml:"no_color"`
	ProjectURL    *string `yaml:"project_url"`

	timeout   *time.Duration
	heartbeat *time.Duration
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	if strings.TrimSpace(path) == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("reading config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if fc.timeout, err = parseDuration(fc.Timeout); err != nil {
		return fc, fmt.Errorf("parsing config %s: timeout: %w", path, err)
	}
	if fc.heartbeat, err = parseDuration(fc.Heartbeat); err != nil {
		return fc, fmt.Errorf("parsing config %s: heartbeat: %w", path, err)
	}
	return fc, nil
}

func parseDuration(raw *string) (*time.Duration, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (fileConfig) stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func (fileConfig) intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func (fileConfig) boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func (fileConfig) durationOr(v *time.Duration, fallback time.Duration) time.Duration {
	if v == nil {
		return fallback
	}
	return *v
}
