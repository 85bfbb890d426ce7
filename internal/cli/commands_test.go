package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/envelope/internal/export"
	"github.com/piwi3910/envelope/internal/model"
	"github.com/piwi3910/envelope/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command against a config file in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.json")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestComputeJSON(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "compute", "--json")
	require.NoError(t, err)

	var res computeResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Current Parameters", res.Name)
	assert.Equal(t, 23, res.Evaluation.Yield.EstimatedUnits)
	assert.Equal(t, 19.0, res.Evaluation.Envelope.Width)
	assert.InDelta(t, 49.4, res.Coverage, 1e-9)
}

func TestComputeFlagsOverrideDefaults(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "compute", "--json", "--height", "24")
	require.NoError(t, err)

	var res computeResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 11856.0, res.Evaluation.Yield.Volume)
	assert.Equal(t, 47, res.Evaluation.Yield.EstimatedUnits)
	assert.Equal(t, 25.0, res.Evaluation.Parameters.Lot.Width)
}

func TestComputeUsesConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg := model.DefaultAppConfig()
	cfg.Defaults.Lot.Width = 31
	require.NoError(t, project.SaveAppConfig(filepath.Join(dir, "config.json"), cfg))

	out, err := run(t, dir, "compute", "--json")
	require.NoError(t, err)

	var res computeResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 25.0, res.Evaluation.Envelope.Width)
}

func TestComputeFromScenarioFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corner.yaml")
	set := model.NewScenarioSet()
	set.Add(model.NewScenario("Corner", "", model.Parameters{
		Lot:       model.LotSpec{Width: 10, Depth: 10},
		Setbacks:  model.Setbacks{},
		MaxHeight: 5,
	}))
	require.NoError(t, project.SaveScenarios(path, set))

	out, err := run(t, dir, "compute", "--json", "--scenario", path)
	require.NoError(t, err)

	var res computeResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Corner", res.Name)
	assert.Equal(t, 500.0, res.Evaluation.Yield.Volume)
	assert.Equal(t, 2, res.Evaluation.Yield.EstimatedUnits)
}

func TestComputeRejectsNonFinite(t *testing.T) {
	_, err := run(t, t.TempDir(), "compute", "--width", "NaN")
	assert.Error(t, err)
}

func TestComputeText(t *testing.T) {
	out, err := run(t, t.TempDir(), "compute", "--front", "30", "--rear", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Yield")
	assert.Contains(t, out, "0.0 m²")
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "sweep.xlsx")

	out, err := run(t, dir, "sweep", "--axis", "height", "--from", "10", "--to", "12", "--xlsx", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "First unit gained at height = 11.00 m (21 units)")
	assert.FileExists(t, xlsx)
}

func TestSweepUnknownAxis(t *testing.T) {
	_, err := run(t, t.TempDir(), "sweep", "--axis", "floors")
	assert.Error(t, err)
}

func TestCompareWhatIf(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "compare.xlsx")

	out, err := run(t, dir, "compare", "--what-if", "--xlsx", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "Current Parameters")
	assert.Contains(t, out, "No Side Setbacks")
	assert.FileExists(t, xlsx)
}

func TestCompareNothing(t *testing.T) {
	_, err := run(t, t.TempDir(), "compare")
	assert.Error(t, err)
}

func TestCompareSkipsNonFiniteScenarios(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.yaml")
	data := `scenarios:
  - name: Infinite
    parameters:
      lot: {width: .inf, depth: 40}
      setbacks: {front: 6, rear: 8, left: 3, right: 3}
      max_height: 12
  - name: Regular
    parameters:
      lot: {width: 25, depth: 40}
      setbacks: {front: 6, rear: 8, left: 3, right: 3}
      max_height: 12
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	out, err := run(t, dir, "compare", path)
	require.NoError(t, err)
	assert.Contains(t, out, `Skipping "Infinite"`)
	assert.Contains(t, out, "Regular")

	only := filepath.Join(dir, "only.yaml")
	require.NoError(t, os.WriteFile(only, []byte(strings.Split(data, "  - name: Regular")[0]), 0644))
	_, err = run(t, dir, "compare", only)
	assert.Error(t, err, "nothing left to compare")
}

func TestBatchCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "lots.csv")
	data := "Name,Width,Depth,Front,Rear,Left,Right,Height\n" +
		"Alpha,25,40,6,8,3,3,12\n" +
		"Beta,30,50,5,5,2,2,15\n" +
		"Broken,abc,40,6,8,3,3,12\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(data), 0644))
	savePath := filepath.Join(dir, "lots.toml")

	out, err := run(t, dir, "batch", csvPath, "--save", savePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Beta")

	set, err := project.LoadScenarios(savePath, model.DefaultParameters())
	require.NoError(t, err)
	require.Len(t, set.Scenarios, 2)
	assert.Equal(t, "Beta", set.Scenarios[1].Name)
}

func TestBatchUnsupported(t *testing.T) {
	_, err := run(t, t.TempDir(), "batch", "lots.ods")
	assert.Error(t, err)
}

func TestExportDXFAndScene(t *testing.T) {
	dir := t.TempDir()
	dxfPath := filepath.Join(dir, "lot.dxf")
	scenePath := filepath.Join(dir, "scene.json")

	_, err := run(t, dir, "export", "dxf", "-o", dxfPath)
	require.NoError(t, err)
	assert.FileExists(t, dxfPath)

	_, err = run(t, dir, "export", "scene", "-o", scenePath, "--height", "15")
	require.NoError(t, err)

	data, err := os.ReadFile(scenePath)
	require.NoError(t, err)
	var scene export.Scene
	require.NoError(t, json.Unmarshal(data, &scene))
	assert.Equal(t, export.SceneVersion, scene.Version)
	assert.Equal(t, 15.0, scene.Envelope.Size.Y)
}

func TestExportUsesExportDir(t *testing.T) {
	dir := t.TempDir()
	exports := filepath.Join(dir, "exports")
	require.NoError(t, os.MkdirAll(exports, 0755))
	cfg := model.DefaultAppConfig()
	cfg.ExportDir = exports
	require.NoError(t, project.SaveAppConfig(filepath.Join(dir, "config.json"), cfg))

	_, err := run(t, dir, "export", "scene")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(exports, "envelope.json"))
}

func TestImportLot(t *testing.T) {
	dir := t.TempDir()
	dxfPath := filepath.Join(dir, "site.dxf")
	_, err := run(t, dir, "export", "dxf", "-o", dxfPath, "--width", "30", "--depth", "45")
	require.NoError(t, err)

	savePath := filepath.Join(dir, "site.json")
	out, err := run(t, dir, "import-lot", dxfPath, "--save", savePath)
	require.NoError(t, err)
	assert.Contains(t, out, "30.00 x 45.00")

	set, err := project.LoadScenarios(savePath, model.DefaultParameters())
	require.NoError(t, err)
	require.Len(t, set.Scenarios, 1)
	assert.Equal(t, "site", set.Scenarios[0].Name)
	assert.InDelta(t, 30.0, set.Scenarios[0].Parameters.Lot.Width, 1e-6)
	assert.InDelta(t, 45.0, set.Scenarios[0].Parameters.Lot.Depth, 1e-6)
}

func TestScenarioLibrary(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "scenario", "save", "Corner", "--width", "30", "--description", "corner lot")
	require.NoError(t, err)
	_, err = run(t, dir, "scenario", "save", "Corner", "--width", "32")
	require.NoError(t, err)
	_, err = run(t, dir, "scenario", "save", "Infill")
	require.NoError(t, err)

	out, err := run(t, dir, "scenario", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Corner")
	assert.Contains(t, out, "Infill")

	lib, err := project.LoadLibrary(filepath.Join(dir, "scenarios.json"))
	require.NoError(t, err)
	require.Len(t, lib.Scenarios, 2)
	assert.Equal(t, 32.0, lib.FindByName("Corner").Parameters.Lot.Width)

	exported := filepath.Join(dir, "library.yaml")
	_, err = run(t, dir, "scenario", "export", exported)
	require.NoError(t, err)
	assert.FileExists(t, exported)

	_, err = run(t, dir, "scenario", "remove", "Corner")
	require.NoError(t, err)
	_, err = run(t, dir, "scenario", "remove", "Corner")
	assert.Error(t, err)

	out, err = run(t, dir, "compare", "--library")
	require.NoError(t, err)
	assert.Contains(t, out, "Infill")
	assert.NotContains(t, out, "Corner")
}

func TestScenarioListEmpty(t *testing.T) {
	out, err := run(t, t.TempDir(), "scenario", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved scenarios")
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "config.json"))

	_, err = run(t, dir, "config", "init")
	assert.Error(t, err, "init must not overwrite without --force")
	_, err = run(t, dir, "config", "init", "--force")
	require.NoError(t, err)

	out, err := run(t, dir, "config", "show")
	require.NoError(t, err)
	var cfg model.AppConfig
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, model.DefaultAppConfig(), cfg)
}

func TestConfigBackupRestore(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "scenario", "save", "Keep")
	require.NoError(t, err)

	backup := filepath.Join(dir, "backup.json")
	_, err = run(t, dir, "config", "backup", backup)
	require.NoError(t, err)

	other := t.TempDir()
	out, err := run(t, other, "config", "restore", backup)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "1 saved scenarios"), out)

	lib, err := project.LoadLibrary(filepath.Join(other, "scenarios.json"))
	require.NoError(t, err)
	require.NotNil(t, lib.FindByName("Keep"))
	assert.FileExists(t, filepath.Join(other, "config.json"))
}
