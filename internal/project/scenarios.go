package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/piwi3910/envelope/internal/model"
	"gopkg.in/yaml.v3"
)

// Format identifies a scenario file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported scenario file extension %q (want .json, .toml, .yaml)", filepath.Ext(path))
	}
}

func decode(format Format, data []byte, v any) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	}
	return fmt.Errorf("unknown format %q", format)
}

func encode(format Format, v any) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(v, "", "  ")
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(v)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// LoadScenarios reads a scenario file. The file may hold either a list under
// "scenarios" or a single scenario at the top level. A single scenario
// starts from base, so the file only needs to name the inputs it changes;
// list entries are taken as written. Scenarios without an ID get a fresh one,
// and a single unnamed scenario is named after the file.
func LoadScenarios(path string, base model.Parameters) (model.ScenarioSet, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return model.ScenarioSet{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ScenarioSet{}, fmt.Errorf("failed to read scenario file: %w", err)
	}

	set := model.NewScenarioSet()
	if err := decode(format, data, &set); err != nil {
		return model.ScenarioSet{}, fmt.Errorf("failed to parse scenario file %s: %w", filepath.Base(path), err)
	}

	if len(set.Scenarios) == 0 {
		single := model.Scenario{Parameters: base}
		if err := decode(format, data, &single); err != nil {
			return model.ScenarioSet{}, fmt.Errorf("failed to parse scenario file %s: %w", filepath.Base(path), err)
		}
		if single.Name == "" {
			single.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		set.Scenarios = []model.Scenario{single}
	}

	for i := range set.Scenarios {
		s := &set.Scenarios[i]
		if s.ID == "" {
			fresh := model.NewScenario(s.Name, s.Description, s.Parameters)
			s.ID = fresh.ID
			if s.CreatedAt == "" {
				s.CreatedAt = fresh.CreatedAt
			}
		}
	}
	return set, nil
}

// SaveScenarios writes set to path in the encoding implied by its extension.
// It creates any missing parent directories automatically.
func SaveScenarios(path string, set model.ScenarioSet) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := encode(format, set)
	if err != nil {
		return fmt.Errorf("failed to encode scenarios: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create scenario directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}
	return nil
}
