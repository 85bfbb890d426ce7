package model

import (
	"time"

	"github.com/google/uuid"
)

// Scenario is a named parameter set used for comparisons, batch runs and
// scenario files.
type Scenario struct {
	ID          string     `json:"id" toml:"id" yaml:"id"`
	Name        string     `json:"name" toml:"name" yaml:"name"`
	Description string     `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   string     `json:"created_at" toml:"created_at" yaml:"created_at"`
	Parameters  Parameters `json:"parameters" toml:"parameters" yaml:"parameters"`
}

// NewScenario creates a scenario with a fresh short ID.
func NewScenario(name, description string, params Parameters) Scenario {
	return Scenario{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Parameters:  params,
	}
}

// Evaluate runs both derivations on the scenario's parameters.
func (s Scenario) Evaluate() Evaluation {
	return Evaluate(s.Parameters)
}

// ScenarioSet holds an ordered collection of scenarios.
type ScenarioSet struct {
	Scenarios []Scenario `json:"scenarios" toml:"scenarios" yaml:"scenarios"`
}

// NewScenarioSet creates an empty set.
func NewScenarioSet() ScenarioSet {
	return ScenarioSet{
		Scenarios: []Scenario{},
	}
}

// Add appends a scenario to the set.
func (ss *ScenarioSet) Add(s Scenario) {
	ss.Scenarios = append(ss.Scenarios, s)
}

// Remove removes a scenario by ID. Returns true if found and removed.
func (ss *ScenarioSet) Remove(id string) bool {
	for i, s := range ss.Scenarios {
		if s.ID == id {
			ss.Scenarios = append(ss.Scenarios[:i], ss.Scenarios[i+1:]...)
			return true
		}
	}
	return false
}

// FindByName returns a pointer to the first scenario with the given name, or nil.
func (ss *ScenarioSet) FindByName(name string) *Scenario {
	for i := range ss.Scenarios {
		if ss.Scenarios[i].Name == name {
			return &ss.Scenarios[i]
		}
	}
	return nil
}

// Names returns the scenario names in order.
func (ss *ScenarioSet) Names() []string {
	names := make([]string, len(ss.Scenarios))
	for i, s := range ss.Scenarios {
		names[i] = s.Name
	}
	return names
}
