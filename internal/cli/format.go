package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/piwi3910/envelope/internal/engine"
	"github.com/piwi3910/envelope/internal/model"
)

// renderEvaluation formats inputs, envelope and yield as labeled lines.
func renderEvaluation(ev model.Evaluation) string {
	p := ev.Parameters
	env := ev.Envelope
	y := ev.Yield

	lines := []string{
		styleTitle.Render("Inputs"),
		keyValue("Lot", fmt.Sprintf("%.1f x %.1f m", p.Lot.Width, p.Lot.Depth)),
		keyValue("Setbacks", fmt.Sprintf("front %.1f / rear %.1f / left %.1f / right %.1f m",
			p.Setbacks.Front, p.Setbacks.Rear, p.Setbacks.Left, p.Setbacks.Right)),
		keyValue("Max height", model.FormatLength(float64(p.MaxHeight))),
		"",
		styleTitle.Render("Envelope"),
		keyValue("Size", fmt.Sprintf("%.1f x %.1f x %.1f m", env.Width, env.Depth, env.Height)),
		keyValue("Center", fmt.Sprintf("(%.2f, %.2f, %.2f)", env.Center.X, env.Center.Y, env.Center.Z)),
		"",
		styleTitle.Render("Yield"),
		keyValue("Footprint", model.FormatArea(y.FootprintArea)),
		keyValue("Volume", model.FormatVolume(y.Volume)),
		keyValue("Units", styleNumber.Render(fmt.Sprintf("%d", y.EstimatedUnits))),
		keyValue("Coverage", fmt.Sprintf("%.1f%%", y.Coverage(p.Lot))),
	}
	return strings.Join(lines, "\n") + "\n"
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// comparisonTable renders one row per scenario; the best by units is marked.
func comparisonTable(results []engine.ComparisonResult) string {
	best := engine.BestByUnits(results)

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		p := r.Scenario.Parameters
		mark := ""
		if i == best {
			mark = "*"
		}
		rows = append(rows, []string{
			mark,
			r.Scenario.Name,
			fmt.Sprintf("%.1f x %.1f", p.Lot.Width, p.Lot.Depth),
			fmt.Sprintf("%.1f/%.1f/%.1f/%.1f", p.Setbacks.Front, p.Setbacks.Rear, p.Setbacks.Left, p.Setbacks.Right),
			fmt.Sprintf("%.1f", float64(p.MaxHeight)),
			model.FormatArea(r.Evaluation.Yield.FootprintArea),
			model.FormatVolume(r.Evaluation.Yield.Volume),
			fmt.Sprintf("%d", r.Evaluation.Yield.EstimatedUnits),
			fmt.Sprintf("%+d", r.UnitsDelta),
			fmt.Sprintf("%.1f%%", r.Coverage),
		})
	}

	t := newTable("", "Scenario", "Lot (m)", "F/R/L/R (m)", "Height", "Footprint", "Volume", "Units", "+/-", "Coverage").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return styleHeader.Padding(0, 1)
			case row == best:
				return base.Inherit(styleHighlight)
			}
			return base
		})
	return t.Render() + "\n"
}

// sweepTable renders one row per sweep sample. The first sample that gains
// a unit over the start of the sweep is marked.
func sweepTable(axis engine.Axis, points []engine.SweepPoint) string {
	gain := engine.FirstUnitGain(points)

	rows := make([][]string, 0, len(points))
	for i, pt := range points {
		ev := pt.Evaluation
		mark := ""
		if i == gain {
			mark = "+"
		}
		rows = append(rows, []string{
			mark,
			fmt.Sprintf("%.2f", pt.Value),
			fmt.Sprintf("%.1f x %.1f x %.1f", ev.Envelope.Width, ev.Envelope.Depth, ev.Envelope.Height),
			model.FormatArea(ev.Yield.FootprintArea),
			model.FormatVolume(ev.Yield.Volume),
			fmt.Sprintf("%d", ev.Yield.EstimatedUnits),
		})
	}

	t := newTable("", string(axis)+" (m)", "Envelope (m)", "Footprint", "Volume", "Units").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return styleHeader.Padding(0, 1)
			case row == gain:
				return base.Inherit(styleHighlight)
			}
			return base
		})
	return t.Render() + "\n"
}
