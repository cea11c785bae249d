package config

import (
	"fmt"
	"os"

	"github.com/jsphweid/handex/constants"
	"gopkg.in/yaml.v3"
)

// Options is the full configuration surface. DynamicSplitPoint,
// PreserveMelody and PreserveBass are accepted and threaded through
// but consumed by no pipeline stage yet.
type Options struct {
	SplitPoint        uint8 `yaml:"splitPoint"`
	MaxRightHandNotes int   `yaml:"maxRightHandNotes"`
	MaxLeftHandNotes  int   `yaml:"maxLeftHandNotes"`
	DynamicSplitPoint bool  `yaml:"dynamicSplitPoint"`
	PreserveMelody    bool  `yaml:"preserveMelody"`
	PreserveBass      bool  `yaml:"preserveBass"`
}

// Default returns the library defaults. Entry points layer their own
// ceilings on top.
func Default() Options {
	return Options{
		SplitPoint:        constants.DefaultSplitPoint,
		MaxRightHandNotes: constants.DefaultMaxRightHandNotes,
		MaxLeftHandNotes:  constants.DefaultMaxLeftHandNotes,
	}
}

// Validate rejects ceilings no hand could honor. Entry points call it
// before options reach the pipeline.
func (o Options) Validate() error {
	if o.MaxRightHandNotes < 1 {
		return fmt.Errorf("maxRightHandNotes must be a positive integer")
	}
	if o.MaxLeftHandNotes < 1 {
		return fmt.Errorf("maxLeftHandNotes must be a positive integer")
	}
	return nil
}

// ReadFile loads options from a YAML file on top of base. Fields absent
// from the file keep the base values, so each entry point's own
// defaults survive a partial config.
func ReadFile(path string, base Options) (*Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %v", path, err)
	}
	defer f.Close()

	opts := base
	if err := yaml.NewDecoder(f).Decode(&opts); err != nil {
		return nil, fmt.Errorf("could not decode %v: %v", path, err)
	}
	return &opts, nil
}
