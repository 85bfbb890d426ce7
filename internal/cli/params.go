package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/piwi3910/envelope/internal/model"
	"github.com/piwi3910/envelope/internal/project"
	"github.com/spf13/cobra"
)

// paramFlags binds the seven study inputs plus an optional scenario file.
type paramFlags struct {
	width, depth             float64
	front, rear, left, right float64
	height                   float64
	scenario                 string
}

// addParamFlags registers the input flags on cmd.
func addParamFlags(cmd *cobra.Command, f *paramFlags) {
	d := model.DefaultParameters()
	fs := cmd.Flags()
	fs.Float64Var(&f.width, "width", d.Lot.Width, "lot width (m)")
	fs.Float64Var(&f.depth, "depth", d.Lot.Depth, "lot depth (m)")
	fs.Float64Var(&f.front, "front", d.Setbacks.Front, "front setback (m)")
	fs.Float64Var(&f.rear, "rear", d.Setbacks.Rear, "rear setback (m)")
	fs.Float64Var(&f.left, "left", d.Setbacks.Left, "left setback (m)")
	fs.Float64Var(&f.right, "right", d.Setbacks.Right, "right setback (m)")
	fs.Float64Var(&f.height, "height", float64(d.MaxHeight), "maximum height (m)")
	fs.StringVar(&f.scenario, "scenario", "", "start from the first scenario in a .json, .toml or .yaml file")
}

// resolve builds the parameters for a command: the configured defaults,
// replaced by the scenario file if one is given, then overridden by any
// flag set explicitly. It also returns a display name for the study.
func (f *paramFlags) resolve(cmd *cobra.Command, base model.Parameters) (model.Parameters, string, error) {
	p := base
	name := "Current Parameters"

	if f.scenario != "" {
		set, err := project.LoadScenarios(f.scenario, base)
		if err != nil {
			return model.Parameters{}, "", err
		}
		if len(set.Scenarios) == 0 {
			return model.Parameters{}, "", fmt.Errorf("%s contains no scenarios", f.scenario)
		}
		p = set.Scenarios[0].Parameters
		name = set.Scenarios[0].Name
	}

	fs := cmd.Flags()
	overrides := []struct {
		flag string
		dst  *float64
		v    float64
	}{
		{"width", &p.Lot.Width, f.width},
		{"depth", &p.Lot.Depth, f.depth},
		{"front", &p.Setbacks.Front, f.front},
		{"rear", &p.Setbacks.Rear, f.rear},
		{"left", &p.Setbacks.Left, f.left},
		{"right", &p.Setbacks.Right, f.right},
	}
	for _, o := range overrides {
		if fs.Changed(o.flag) {
			*o.dst = o.v
		}
	}
	if fs.Changed("height") {
		p.MaxHeight = model.HeightLimit(f.height)
	}

	if !p.IsFinite() {
		return model.Parameters{}, "", fmt.Errorf("parameters must be finite numbers")
	}
	return p, name, nil
}

// finiteScenarios drops scenarios with NaN or infinite inputs, reporting
// each one skipped.
func finiteScenarios(w io.Writer, scenarios []model.Scenario) []model.Scenario {
	kept := scenarios[:0:0]
	for _, s := range scenarios {
		if !s.Parameters.IsFinite() {
			printError(w, "Skipping %q: parameters must be finite numbers", s.Name)
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// outputPath returns path, or name inside the configured export directory
// when path is empty.
func outputPath(path, exportDir, name string) string {
	if path != "" {
		return path
	}
	if exportDir == "" {
		return name
	}
	return filepath.Join(exportDir, name)
}

// libraryPath keeps the scenario library next to the config file.
func libraryPath(configPath string) string {
	return project.LibraryPathFor(configPath)
}

// fileExt returns the lower-case extension of path without the dot.
func fileExt(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
