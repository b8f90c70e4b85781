// Package project reads and writes takeoff project files. A project is a
// plan plus its estimation settings, stored as JSON or YAML.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/settings"
	"github.com/alexiusacademia/gotakeoff/internal/takeoff"
)

// Project is the on-disk document. Plan fields sit at the top level.
type Project struct {
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Settings    settings.Settings `json:"settings" yaml:"settings"`

	plan.Plan `yaml:",inline"`
}

// Format is a project file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported project file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Decode parses a project document and validates its plan.
func Decode(data []byte, f Format) (*Project, error) {
	var p Project
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(data, &p)
	case YAML:
		err = yaml.Unmarshal(data, &p)
	default:
		return nil, fmt.Errorf("unknown project format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s project: %w", f, err)
	}
	if err := p.Plan.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Encode serialises a project.
func Encode(p *Project, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return json.MarshalIndent(p, "", "  ")
	case YAML:
		return yaml.Marshal(p)
	default:
		return nil, fmt.Errorf("unknown project format %q", f)
	}
}

// LoadFromFile reads a project, choosing the format by extension.
func LoadFromFile(path string) (*Project, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	return Decode(data, f)
}

// SaveToFile writes a project, choosing the format by extension.
func SaveToFile(path string, p *Project) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(p, f)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	return nil
}

// LoadSettings reads a standalone settings file (JSON or YAML).
func LoadSettings(path string) (*settings.Settings, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s settings.Settings
	if f == JSON {
		err = json.Unmarshal(data, &s)
	} else {
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

// Estimate runs the takeoff on the project's plan and settings.
func (p *Project) Estimate(opts ...takeoff.Option) (*takeoff.Result, error) {
	return takeoff.Estimate(&p.Plan, &p.Settings, opts...)
}
