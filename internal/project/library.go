package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/envelope/internal/model"
)

// DefaultLibraryPath returns the saved scenario library inside
// DefaultConfigDir.
func DefaultLibraryPath() string {
	return filepath.Join(DefaultConfigDir(), libraryFileName)
}

// SaveLibrary writes the scenario library to a JSON file.
func SaveLibrary(path string, set model.ScenarioSet) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadLibrary reads the scenario library from a JSON file.
// If the file does not exist, returns an empty set.
func LoadLibrary(path string) (model.ScenarioSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewScenarioSet(), nil
		}
		return model.ScenarioSet{}, err
	}
	var set model.ScenarioSet
	if err := json.Unmarshal(data, &set); err != nil {
		return model.ScenarioSet{}, fmt.Errorf("failed to parse scenario library: %w", err)
	}
	if set.Scenarios == nil {
		set.Scenarios = []model.Scenario{}
	}
	return set, nil
}

// SaveToLibrary adds s to the library at path, replacing any scenario with
// the same name.
func SaveToLibrary(path string, s model.Scenario) error {
	set, err := LoadLibrary(path)
	if err != nil {
		return err
	}
	if existing := set.FindByName(s.Name); existing != nil {
		set.Remove(existing.ID)
	}
	set.Add(s)
	return SaveLibrary(path, set)
}
