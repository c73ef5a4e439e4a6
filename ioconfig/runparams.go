package ioconfig

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edmdsim/dynamogo/simerr"
)

// RunParams is the run-level configuration kept outside the
// config/state document: event and wall-clock budgets, the RNG seed,
// which Sorter to use, and how often to checkpoint. Grounded on the
// teacher's YAML run-program idiom (core/program.go's YAMLRoot /
// LoadProgramFileFromYAML), reused here for a different payload shape.
type RunParams struct {
	MaxEvents       uint64        `yaml:"maxEvents"`
	MaxWallClock    time.Duration `yaml:"maxWallClock"`
	MaxSimTime      float64       `yaml:"maxSimTime"`
	RNGSeed         int64         `yaml:"rngSeed"`
	Sorter          string        `yaml:"sorter"`
	CheckpointEvery uint64        `yaml:"checkpointEvery"`
	TextOutput      bool          `yaml:"textOutput"`
}

// DefaultRunParams matches the teacher's pattern of a zero-value-safe
// default struct (core/program.go's YAMLRoot has no implicit defaults,
// but samples/*/main.go always supplies every field explicitly; here
// Sorter defaults to the canonical bounded-PQ scheduler).
var DefaultRunParams = RunParams{
	Sorter:          "BoundedPQ",
	CheckpointEvery: 0,
}

// LoadRunParams reads a YAML run-parameters file, grounded on
// core/program.go's `os.ReadFile` + `yaml.Unmarshal(data, &root)` idiom.
func LoadRunParams(path string) (RunParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunParams{}, simerr.NewConfigError("ioconfig.LoadRunParams", "reading %s: %v", path, err)
	}
	params := DefaultRunParams
	if err := yaml.Unmarshal(data, &params); err != nil {
		return RunParams{}, simerr.NewConfigError("ioconfig.LoadRunParams", "parsing %s: %v", path, err)
	}
	return params, nil
}

// SaveRunParams writes params back out in the same YAML shape.
func SaveRunParams(path string, params RunParams) error {
	data, err := yaml.Marshal(&params)
	if err != nil {
		return simerr.NewConfigError("ioconfig.SaveRunParams", "marshalling run params: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return simerr.NewConfigError("ioconfig.SaveRunParams", "writing %s: %v", path, err)
	}
	return nil
}
