package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "http://localhost:3000/api", cfg.APIBaseURL())
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Default)
	assert.Equal(t, 15*time.Second, cfg.Timeouts.Purchase)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Probe)
	assert.Equal(t, filepath.Join(".contract-tests", "last-run.json"), cfg.ResultsFile)
	assert.NoError(t, cfg.Validate())
}

func TestAPIBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		apiPath  string
		expected string
	}{
		{"trailing slash on base", "https://trx.example.com/", "/api", "https://trx.example.com/api"},
		{"path without slash", "https://trx.example.com", "api/", "https://trx.example.com/api"},
		{"no prefix", "http://localhost:8080", "", "http://localhost:8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{BaseURL: tt.baseURL, APIPath: tt.apiPath}
			assert.Equal(t, tt.expected, cfg.APIBaseURL())
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "contract-tests.yaml", `
base_url: https://staging.trx.example.com
api_path: ""
timeouts:
  default: 20s
  purchase: "30"
results_file: ""
xlsx_file: report.xlsx
`)
	cfg := New()
	require.NoError(t, cfg.LoadFile(path, true))

	assert.Equal(t, "https://staging.trx.example.com", cfg.APIBaseURL())
	assert.Equal(t, 20*time.Second, cfg.Timeouts.Default)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Purchase)
	assert.Equal(t, DefaultProbeTimeout, cfg.Timeouts.Probe)
	assert.Equal(t, "", cfg.ResultsFile)
	assert.Equal(t, "report.xlsx", cfg.ExcelFile)
}

func TestLoadFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	assert.NoError(t, New().LoadFile(missing, false))
	assert.Error(t, New().LoadFile(missing, true))
}

func TestLoadFileErrors(t *testing.T) {
	badYAML := writeFile(t, "bad.yaml", "base_url: [unterminated")
	err := New().LoadFile(badYAML, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")

	badDuration := writeFile(t, "bad-duration.yaml", "timeouts:\n  probe: soon\n")
	err = New().LoadFile(badDuration, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeouts.probe")
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{
		EnvBaseURL: "https://trx.example.com",
		EnvTimeout: "3s",
	})))
	assert.Equal(t, "https://trx.example.com/api", cfg.APIBaseURL())
	assert.Equal(t, 3*time.Second, cfg.Timeouts.Default)

	cfg = New()
	require.NoError(t, cfg.ApplyEnv(noEnv))
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)

	assert.Error(t, New().ApplyEnv(envMap(map[string]string{EnvTimeout: "later"})))
}

func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, "contract-tests.yaml", "base_url: https://from-file.example.com\ntimeouts:\n  default: 7s\n")
	t.Setenv(EnvBaseURL, "https://from-env.example.com")

	cfg, err := Load(Sources{ConfigFile: path, Explicit: true, EnvFile: filepath.Join(t.TempDir(), ".env")})
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example.com", cfg.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.Timeouts.Default)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	envFile := writeFile(t, ".env", "NEXT_PUBLIC_BASE_URL=https://from-dotenv.example.com\nCONTRACT_TESTS_TIMEOUT=4s\n")
	t.Setenv(EnvBaseURL, "https://from-env.example.com")
	t.Setenv(EnvTimeout, "")

	cfg, err := Load(Sources{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example.com", cfg.BaseURL)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeouts.Default)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"relative URL", func(c *Config) { c.BaseURL = "localhost:3000" }, true},
		{"unsupported scheme", func(c *Config) { c.BaseURL = "ftp://example.com" }, true},
		{"zero timeout", func(c *Config) { c.Timeouts.Probe = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
