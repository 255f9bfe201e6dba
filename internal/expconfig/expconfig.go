// Package expconfig provides reading and validation of the experiment
// configuration. The config file (irit-rst-dt.yaml) declares which corpora
// to evaluate, which learner/decoder combinations to run, and how to reach
// the external attelo tool. Reading: uses the file in the data dir if it
// exists, otherwise the one in the working dir.
package expconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfig is returned when no config file can be found.
	ErrNoConfig = errors.New("no experiment config found")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
	// ErrUnknownName is returned when an evaluation references an
	// undeclared learner or decoder.
	ErrUnknownName = errors.New("unknown name")
)

// FileName is the experiment config file name.
const FileName = "irit-rst-dt.yaml"

// DefaultAttelo is the attelo binary invoked when none is configured.
const DefaultAttelo = "attelo"

// Learner names the attachment learner and, optionally, a separate
// relation labelling learner.
type Learner struct {
	Name   string `yaml:"name"`
	Attach string `yaml:"attach"`
	Relate string `yaml:"relate,omitempty"`
}

// String renders the learner the way banners display it: "attach" or
// "attach:relate".
func (l Learner) String() string {
	if l.Relate == "" {
		return l.Attach
	}
	return l.Attach + ":" + l.Relate
}

// Decoder names a decoding strategy understood by attelo.
type Decoder struct {
	Name    string `yaml:"name"`
	Decoder string `yaml:"decoder"`
}

// Evaluation is one learner/decoder combination to run on every fold.
type Evaluation struct {
	Name    string `yaml:"name,omitempty"`
	Learner string `yaml:"learner"`
	Decoder string `yaml:"decoder"`
}

// Gather configures the feature extraction step.
type Gather struct {
	// Command is the feature extraction command run once per corpus,
	// with the corpus dir and output dir appended as arguments.
	Command []string `yaml:"command,omitempty"`
}

// Config contains the experiment configuration.
type Config struct {
	// Corpora are the training corpus directories, evaluated in order.
	Corpora []string `yaml:"corpora"`
	// Attelo is the external learner/decoder binary (default "attelo").
	Attelo string `yaml:"attelo,omitempty"`
	// AtteloConfig is the attelo config file passed via --config.
	AtteloConfig string `yaml:"attelo_config"`

	Learners    []Learner    `yaml:"learners"`
	Decoders    []Decoder    `yaml:"decoders"`
	Evaluations []Evaluation `yaml:"evaluations"`

	Gather Gather `yaml:"gather,omitempty"`

	// path is the file this config was loaded from
	path string
}

// EvalConfig is a resolved evaluation: the named learner and decoder
// looked up, with the evaluation name defaulted.
type EvalConfig struct {
	Name    string
	Learner Learner
	Decoder Decoder
}

// AtteloBin returns the configured attelo binary (defaults to "attelo").
func (c *Config) AtteloBin() string {
	if c.Attelo == "" {
		return DefaultAttelo
	}
	return c.Attelo
}

// Path returns the file this config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// learner looks up a learner by name.
func (c *Config) learner(name string) (Learner, bool) {
	for _, l := range c.Learners {
		if l.Name == name {
			return l, true
		}
	}
	return Learner{}, false
}

// decoder looks up a decoder by name.
func (c *Config) decoder(name string) (Decoder, bool) {
	for _, d := range c.Decoders {
		if d.Name == name {
			return d, true
		}
	}
	return Decoder{}, false
}

// EvalConfigs resolves all configured evaluations. Validate must have
// succeeded first; unresolvable references are reported there.
func (c *Config) EvalConfigs() []EvalConfig {
	econfs := make([]EvalConfig, 0, len(c.Evaluations))
	for _, e := range c.Evaluations {
		learner, _ := c.learner(e.Learner)
		decoder, _ := c.decoder(e.Decoder)
		econfs = append(econfs, EvalConfig{
			Name:    evalName(e),
			Learner: learner,
			Decoder: decoder,
		})
	}
	return econfs
}

// evalName defaults an unnamed evaluation to "<learner>-<decoder>".
func evalName(e Evaluation) string {
	if e.Name != "" {
		return e.Name
	}
	return e.Learner + "-" + e.Decoder
}

// Validate checks the configuration is complete and internally consistent.
func (c *Config) Validate() error {
	if len(c.Corpora) == 0 {
		return fmt.Errorf("%w: no training corpora configured", ErrInvalidValue)
	}
	if c.AtteloConfig == "" {
		return fmt.Errorf("%w: attelo_config is required", ErrInvalidValue)
	}
	if len(c.Evaluations) == 0 {
		return fmt.Errorf("%w: no evaluations configured", ErrInvalidValue)
	}

	names := make(map[string]bool, len(c.Evaluations))
	for _, e := range c.Evaluations {
		if _, ok := c.learner(e.Learner); !ok {
			return fmt.Errorf("%w: evaluation %q references learner %q",
				ErrUnknownName, evalName(e), e.Learner)
		}
		if _, ok := c.decoder(e.Decoder); !ok {
			return fmt.Errorf("%w: evaluation %q references decoder %q",
				ErrUnknownName, evalName(e), e.Decoder)
		}
		name := evalName(e)
		if names[name] {
			return fmt.Errorf("%w: duplicate evaluation name %q",
				ErrInvalidValue, name)
		}
		names[name] = true
	}

	for _, l := range c.Learners {
		if l.Name == "" || l.Attach == "" {
			return fmt.Errorf("%w: learners need both a name and an attach learner",
				ErrInvalidValue)
		}
	}
	for _, d := range c.Decoders {
		if d.Name == "" || d.Decoder == "" {
			return fmt.Errorf("%w: decoders need both a name and a decoder",
				ErrInvalidValue)
		}
	}
	return nil
}

// Load reads the experiment config, preferring dataDir/irit-rst-dt.yaml
// over ./irit-rst-dt.yaml.
func Load(dataDir string) (*Config, error) {
	candidates := []string{
		filepath.Join(dataDir, FileName),
		FileName,
	}
	for _, path := range candidates {
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return nil, fmt.Errorf("%w (looked for %s in %s and the working dir)",
		ErrNoConfig, FileName, dataDir)
}

// LoadFile reads the experiment config from a specific path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w", path, err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}
