// Package config parses survey.toml configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/LISSConsulting/LISSTech.Survey/internal/catalog"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "survey.toml"

// Environments select which store file a run uses.
const (
	EnvProduction = "production"
	EnvTest       = "test"
)

// Config is the top-level survey.toml configuration.
type Config struct {
	Store     StoreConfig        `toml:"store"`
	Survey    SurveyConfig       `toml:"survey"`
	Reset     ResetConfig        `toml:"reset"`
	Questions []catalog.Question `toml:"questions"`

	// Dir is the directory relative store paths resolve against: the
	// directory holding survey.toml, or the working directory when none
	// was found.
	Dir string `toml:"-"`
}

// StoreConfig locates the store files.
type StoreConfig struct {
	Path        string `toml:"path"`
	TestPath    string `toml:"test_path"`
	Environment string `toml:"environment"`
}

// SurveyConfig controls the survey run.
type SurveyConfig struct {
	Debug bool `toml:"debug"` // print stored answers and ratings after the report
}

// ResetConfig lists the stores wiped by `survey reset`.
type ResetConfig struct {
	Paths []string `toml:"paths"` // empty = store.path and store.test_path
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, fmt.Errorf("store.path must not be empty"))
	}
	if strings.TrimSpace(c.Store.TestPath) == "" {
		errs = append(errs, fmt.Errorf("store.test_path must not be empty"))
	}
	switch c.Store.Environment {
	case EnvProduction, EnvTest:
	default:
		errs = append(errs, fmt.Errorf("store.environment must be %q or %q, got %q", EnvProduction, EnvTest, c.Store.Environment))
	}

	for i, p := range c.Reset.Paths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("reset.paths[%d] must not be empty", i))
		}
	}

	if len(c.Questions) > 0 {
		if _, err := catalog.New(c.Questions...); err != nil {
			errs = append(errs, fmt.Errorf("questions: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with the built-in store layout.
func Defaults() Config {
	return Config{
		Store: StoreConfig{
			Path:        "survey.db",
			TestPath:    "test.db",
			Environment: EnvProduction,
		},
		Survey: SurveyConfig{
			Debug: true,
		},
	}
}

// StorePath returns the absolute-or-Dir-relative path of the store for the
// configured environment.
func (c *Config) StorePath() string {
	if c.Store.Environment == EnvTest {
		return c.resolve(c.Store.TestPath)
	}
	return c.resolve(c.Store.Path)
}

// ResetPaths returns the stores `survey reset` wipes.
func (c *Config) ResetPaths() []string {
	paths := c.Reset.Paths
	if len(paths) == 0 {
		paths = []string{c.Store.Path, c.Store.TestPath}
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = c.resolve(p)
	}
	return out
}

// Catalog returns the configured questions, or the default catalog when
// none are configured.
func (c *Config) Catalog() (catalog.Catalog, error) {
	if len(c.Questions) == 0 {
		return catalog.Default(), nil
	}
	return catalog.New(c.Questions...)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Load reads survey.toml from the given path. If path is empty, it uses
// $SURVEY_CONFIG, and failing that walks up from the working directory
// looking for survey.toml; when none is found the defaults are used. Unknown
// keys (likely typos) are an error. Environment overrides from Env are
// applied last and the result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := Defaults()
	if path == "" {
		found, dir, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
		cfg.Dir = dir
	}

	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
		}
		cfg.Dir = filepath.Dir(path)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// findConfig walks up from the current directory looking for survey.toml.
// It returns an empty path (and the working directory) when there is none.
func findConfig() (path, wd string, err error) {
	wd, err = os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("config: get working directory: %w", err)
	}

	dir := wd
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", wd, nil
		}
		dir = parent
	}
}

// InitFile writes a default survey.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	content := `# survey.toml — survey configuration
# Place this file in the directory you run survey from (or any parent).

[store]
path = "survey.db"          # production store
test_path = "test.db"       # store used when environment = "test"
environment = "production"  # production | test (overridden by $SURVEY_ENV)

[survey]
debug = true  # print stored answers and ratings after each run

[reset]
paths = []  # stores wiped by 'survey reset'; empty = store.path + store.test_path

# Questions asked, in order. Leave commented out to use the built-in set.
# [[questions]]
# id = "q1"
# text = "Can you code in Ruby?"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
