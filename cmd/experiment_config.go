package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/queue-sim/queue-sim/sim/experiment"
)

// ExperimentsConfig represents the full experiments YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ExperimentsConfig struct {
	Version     string            `yaml:"version"`
	Experiments []experiment.Plan `yaml:"experiments"`
}

// builtinExperiments returns the reference experiments used when no
// --config file is given.
func builtinExperiments() ExperimentsConfig {
	return ExperimentsConfig{
		Version:     "1",
		Experiments: []experiment.Plan{experiment.MM1Plan(), experiment.MM1KPlan()},
	}
}

// loadExperimentsConfig reads and strictly parses an experiments file.
func loadExperimentsConfig(path string) (ExperimentsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ExperimentsConfig{}, fmt.Errorf("read experiments file %s: %w", path, err)
	}
	cfg, err := parseExperimentsConfig(data)
	if err != nil {
		return ExperimentsConfig{}, fmt.Errorf("parse experiments file %s: %w", path, err)
	}
	return cfg, nil
}

// parseExperimentsConfig decodes YAML with strict field checking (typos must
// cause errors) and validates every plan.
func parseExperimentsConfig(data []byte) (ExperimentsConfig, error) {
	var cfg ExperimentsConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return ExperimentsConfig{}, err
	}
	if len(cfg.Experiments) == 0 {
		return ExperimentsConfig{}, fmt.Errorf("no experiments defined")
	}
	seen := make(map[string]bool, len(cfg.Experiments))
	for i, plan := range cfg.Experiments {
		if plan.Name == "" {
			return ExperimentsConfig{}, fmt.Errorf("experiment %d: name is required", i)
		}
		if seen[plan.Name] {
			return ExperimentsConfig{}, fmt.Errorf("experiment %q defined more than once", plan.Name)
		}
		seen[plan.Name] = true
		if err := plan.Validate(); err != nil {
			return ExperimentsConfig{}, fmt.Errorf("experiment %q: %w", plan.Name, err)
		}
	}
	return cfg, nil
}

// selectExperiments returns the named plans in the order given, or all plans
// when names is empty.
func selectExperiments(cfg ExperimentsConfig, names []string) ([]experiment.Plan, error) {
	if len(names) == 0 {
		return cfg.Experiments, nil
	}
	byName := make(map[string]experiment.Plan, len(cfg.Experiments))
	for _, plan := range cfg.Experiments {
		byName[plan.Name] = plan
	}
	plans := make([]experiment.Plan, 0, len(names))
	for _, name := range names {
		plan, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown experiment %q", name)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
