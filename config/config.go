package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for a test run
type Config struct {
	// BaseURL is the origin of the web application, without the API prefix.
	BaseURL string
	APIPath string

	Timeouts Timeouts

	// ResultsFile is where the result log of the last run is saved. Empty disables saving.
	ResultsFile string

	// ExcelFile, if set, is where a spreadsheet of the results is written.
	ExcelFile string
}

// Timeouts bounds each request. Purchase applies to node purchases, which the platform verifies
// against the chain; Probe applies to malformed-input probes.
type Timeouts struct {
	Default  time.Duration
	Purchase time.Duration
	Probe    time.Duration
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		APIPath: DefaultAPIPath,
		Timeouts: Timeouts{
			Default:  DefaultRequestTimeout,
			Purchase: DefaultPurchaseTimeout,
			Probe:    DefaultProbeTimeout,
		},
		ResultsFile: filepath.Join(DefaultResultsDir, DefaultResultsFile),
	}
}

// Sources says where Load should look for configuration.
type Sources struct {
	// ConfigFile is a YAML file. If Explicit is false, a missing file is not an error.
	ConfigFile string
	Explicit   bool

	// EnvFile is a dotenv file whose variables are added to the environment if not already set.
	EnvFile string
}

// Load builds the configuration from defaults, the YAML file, the dotenv file, and the
// environment, in increasing order of precedence. Command-line flags are applied by the caller.
func Load(sources Sources) (*Config, error) {
	cfg := New()
	if sources.ConfigFile != "" {
		if err := cfg.LoadFile(sources.ConfigFile, sources.Explicit); err != nil {
			return nil, err
		}
	}
	if sources.EnvFile != "" {
		// A missing .env file is normal.
		_ = godotenv.Load(sources.EnvFile)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

type fileConfig struct {
	BaseURL  string  `yaml:"base_url"`
	APIPath  *string `yaml:"api_path"`
	Timeouts struct {
		Default  string `yaml:"default"`
		Purchase string `yaml:"purchase"`
		Probe    string `yaml:"probe"`
	} `yaml:"timeouts"`
	ResultsFile *string `yaml:"results_file"`
	ExcelFile   string  `yaml:"xlsx_file"`
}

// LoadFile applies the settings of a YAML config file.
func (c *Config) LoadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.APIPath != nil {
		c.APIPath = *fc.APIPath
	}
	if fc.ResultsFile != nil {
		c.ResultsFile = *fc.ResultsFile
	}
	if fc.ExcelFile != "" {
		c.ExcelFile = fc.ExcelFile
	}
	for _, d := range []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{"timeouts.default", fc.Timeouts.Default, &c.Timeouts.Default},
		{"timeouts.purchase", fc.Timeouts.Purchase, &c.Timeouts.Purchase},
		{"timeouts.probe", fc.Timeouts.Probe, &c.Timeouts.Probe},
	} {
		if d.value == "" {
			continue
		}
		if err := setDuration(d.dest, d.value); err != nil {
			return fmt.Errorf("parsing config: %s: %w", d.name, err)
		}
	}
	return nil
}

// ApplyEnv applies environment variables, looked up with lookup (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		if err := setDuration(&c.Timeouts.Default, v); err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
	}
	return nil
}

// SetDefaultTimeout overrides the default request timeout. The purchase and probe timeouts keep
// their own values.
func (c *Config) SetDefaultTimeout(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", d)
	}
	c.Timeouts.Default = d
	return nil
}

// APIBaseURL returns the URL that endpoint paths are appended to.
func (c *Config) APIBaseURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + c.normalizedAPIPath()
}

func (c *Config) normalizedAPIPath() string {
	p := strings.TrimSuffix(c.APIPath, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Validate checks that the configuration can be used for a run.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: must be an absolute http or https URL", c.BaseURL)
	}
	for _, t := range []struct {
		name  string
		value time.Duration
	}{
		{"default", c.Timeouts.Default},
		{"purchase", c.Timeouts.Purchase},
		{"probe", c.Timeouts.Probe},
	} {
		if t.value <= 0 {
			return fmt.Errorf("%s timeout must be positive, got %s", t.name, t.value)
		}
	}
	return nil
}

// setDuration accepts Go duration syntax ("15s"), or a bare number of seconds.
func setDuration(dest *time.Duration, value string) error {
	if d, err := time.ParseDuration(value); err == nil {
		*dest = d
		return nil
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", value)
	}
	*dest = time.Duration(seconds * float64(time.Second))
	return nil
}
