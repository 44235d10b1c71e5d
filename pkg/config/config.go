package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Config is the root configuration of a dictionary build.
type Config struct {
	Inputs      InputConfig       `yaml:"inputs"`
	Outputs     OutputConfig      `yaml:"outputs"`
	Association AssociationConfig `yaml:"association"`
	Store       StoreConfig       `yaml:"store"`
	Log         LogConfig         `yaml:"log"`
	DryRun      bool              `yaml:"dry_run" env:"C42_DRY_RUN"`
}

// InputConfig holds the paths of the tab-delimited source tables.
type InputConfig struct {
	Readings  string `yaml:"readings"  env:"C42_READINGS"  env-default:"assets/readings.csv"`
	Analysis  string `yaml:"analysis"  env:"C42_ANALYSIS"  env-default:"assets/analysis.csv"`
	Frequency string `yaml:"frequency" env:"C42_FREQUENCY" env-default:"assets/frequency.csv"`
	KeyMap    string `yaml:"keymap"    env:"C42_KEYMAP"    env-default:"assets/keymap.csv"`
	Brevity   string `yaml:"brevity"   env:"C42_BREVITY"   env-default:"assets/brevity.csv"`
	Specialty string `yaml:"specialty" env:"C42_SPECIALTY" env-default:"assets/specialty.csv"`
	// Base is the pre-seeded Rime dictionary the compiled entries are
	// appended to. It is only read; the result goes to Outputs.Dictionary.
	Base string `yaml:"base" env:"C42_BASE" env-default:"config/c42.dict.yaml"`
}

// OutputConfig holds the paths the compiled tables are written to. Every
// file is replaced on each run.
type OutputConfig struct {
	Dictionary  string `yaml:"dictionary"  env:"C42_OUT_DICTIONARY"  env-default:"build/c42.dict.yaml"`
	Assembly    string `yaml:"assembly"    env:"C42_OUT_ASSEMBLY"    env-default:"build/lua/c42/assembly.txt"`
	Association string `yaml:"association" env:"C42_OUT_ASSOCIATION" env-default:"build/c42.import.txt"`
}

// AssociationConfig tunes the phrase-association table.
type AssociationConfig struct {
	Limit           int  `yaml:"limit"             env:"C42_ASSOCIATION_LIMIT" env-default:"5"`
	SortByFrequency bool `yaml:"sort_by_frequency" env:"C42_ASSOCIATION_SORT"`
}

// StoreConfig enables the optional SQLite snapshot. An empty Path disables it.
type StoreConfig struct {
	Path      string `yaml:"path"       env:"C42_STORE_PATH"`
	BatchSize int    `yaml:"batch_size" env:"C42_STORE_BATCH_SIZE" env-default:"500"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Validate checks that every path the build needs is set and that the
// numeric settings are usable.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		name, value string
	}{
		{"inputs.readings", c.Inputs.Readings},
		{"inputs.analysis", c.Inputs.Analysis},
		{"inputs.frequency", c.Inputs.Frequency},
		{"inputs.keymap", c.Inputs.KeyMap},
		{"inputs.brevity", c.Inputs.Brevity},
		{"inputs.specialty", c.Inputs.Specialty},
		{"inputs.base", c.Inputs.Base},
		{"outputs.dictionary", c.Outputs.Dictionary},
		{"outputs.assembly", c.Outputs.Assembly},
		{"outputs.association", c.Outputs.Association},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}

	if c.Inputs.Base != "" && samePath(c.Inputs.Base, c.Outputs.Dictionary) {
		errs = append(errs, fmt.Errorf("inputs.base and outputs.dictionary must differ, both are %s", c.Inputs.Base))
	}

	if c.Association.Limit <= 0 {
		errs = append(errs, fmt.Errorf("association.limit must be positive, got %d", c.Association.Limit))
	}
	if c.Store.Path != "" && c.Store.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("store.batch_size must be positive, got %d", c.Store.BatchSize))
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
