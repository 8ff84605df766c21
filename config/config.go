// Package config loads jdiagram.toml, the optional per-project settings
// file. Command-line flags override the values it sets.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jdiagram/diagram"
	"github.com/dhamidi/jdiagram/element"
)

const FileName = "jdiagram.toml"

type Config struct {
	// Inputs are the class files, directories and jars scanned when no
	// paths are given on the command line.
	Inputs []string `toml:"inputs"`
	// Classpath lists jars and directories whose classes resolve
	// supertypes but are not diagrammed.
	Classpath     []string `toml:"classpath"`
	Output        string   `toml:"output"`
	ImageFormat   string   `toml:"image_format"`
	HideMembers   bool     `toml:"hide_members"`
	Extension     string   `toml:"extension"`
	Include       []string `toml:"include"`
	Exclude       []string `toml:"exclude"`
	Jobs          int      `toml:"jobs"`
	UniversalRoot string   `toml:"universal_root"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

func Default() Config {
	opts := diagram.DefaultOptions()
	return Config{
		Output:        "docs/diagrams",
		ImageFormat:   opts.ImageFormat,
		HideMembers:   opts.HideMembers,
		Extension:     opts.Extension,
		Jobs:          1,
		UniversalRoot: element.DefaultUniversalRoot,
	}
}

// Find looks for jdiagram.toml in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, errors.Wrap(err, "resolve start directory")
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !os.IsNotExist(err) {
			return "", false, errors.Wrapf(err, "stat %s", candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load reads path over the defaults. Unknown keys are an error. Relative
// input, classpath and output paths are resolved against the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.Newf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path

	base := filepath.Dir(path)
	if meta.IsDefined("output") {
		cfg.Output = resolve(base, cfg.Output)
	}
	for i, in := range cfg.Inputs {
		cfg.Inputs[i] = resolve(base, in)
	}
	for i, lib := range cfg.Classpath {
		cfg.Classpath[i] = resolve(base, lib)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid %s", path)
	}
	return cfg, nil
}

// Resolve loads the explicit path when given, otherwise the nearest
// jdiagram.toml above startDir, otherwise the defaults.
func Resolve(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) Validate() error {
	if c.Jobs < 0 {
		return errors.Newf("jobs must not be negative, got %d", c.Jobs)
	}
	if strings.TrimSpace(c.ImageFormat) == "" {
		return errors.New("image_format must not be empty")
	}
	if strings.ContainsAny(c.Extension, "/\\") {
		return errors.Newf("extension %q must not contain a path separator", c.Extension)
	}
	return nil
}

func (c Config) Options() diagram.Options {
	return diagram.Options{
		ImageFormat: c.ImageFormat,
		HideMembers: c.HideMembers,
		Extension:   c.Extension,
	}
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
