package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/envelope/internal/model"
)

// SceneVersion identifies the scene document layout.
const SceneVersion = 1

// Scene is a renderer-neutral description of one evaluation. Coordinates
// are metres relative to the lot centre with Y up and +Z towards the front
// lot line.
type Scene struct {
	Version    int                `json:"version"`
	Units      string             `json:"units"`
	Lot        SceneLot           `json:"lot"`
	Envelope   SceneEnvelope      `json:"envelope"`
	Yield      model.YieldMetrics `json:"yield"`
	Parameters model.Parameters   `json:"parameters"`
	Advisories []string           `json:"advisories"`
}

// SceneLot is the lot plane.
type SceneLot struct {
	Width   float64      `json:"width"`
	Depth   float64      `json:"depth"`
	Outline []model.Vec3 `json:"outline"`
}

// SceneEnvelope is the buildable box in both centre/size and corner form.
type SceneEnvelope struct {
	Center model.Vec3   `json:"center"`
	Size   model.Vec3   `json:"size"`
	Min    model.Vec3   `json:"min"`
	Max    model.Vec3   `json:"max"`
	Edges  []model.Edge `json:"edges"`
}

// BuildScene converts an evaluation to a scene document.
func BuildScene(ev model.Evaluation) Scene {
	outline := make([]model.Vec3, len(ev.LotOutline))
	for i, pt := range ev.LotOutline {
		outline[i] = model.Vec3{X: pt.X, Y: 0, Z: pt.Y}
	}

	env := ev.Envelope
	return Scene{
		Version: SceneVersion,
		Units:   "m",
		Lot: SceneLot{
			Width:   ev.Parameters.Lot.Width,
			Depth:   ev.Parameters.Lot.Depth,
			Outline: outline,
		},
		Envelope: SceneEnvelope{
			Center: env.Center,
			Size:   model.Vec3{X: env.Width, Y: env.Height, Z: env.Depth},
			Min:    env.Min(),
			Max:    env.Max(),
			Edges:  env.Edges(),
		},
		Yield:      ev.Yield,
		Parameters: ev.Parameters,
		Advisories: model.Advisories(ev.Parameters, model.DefaultRanges()),
	}
}

// WriteScene encodes the scene as indented JSON.
func WriteScene(w io.Writer, scene Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scene); err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	return nil
}

// ExportScene writes the scene for ev to path.
func ExportScene(path string, ev model.Evaluation) error {
	if !ev.Parameters.IsFinite() {
		return fmt.Errorf("cannot describe non-finite parameters")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scene file: %w", err)
	}
	if err := WriteScene(f, BuildScene(ev)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
