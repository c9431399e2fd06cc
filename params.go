package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/trxmining/api-contract-tests/config"
	"github.com/trxmining/api-contract-tests/framework"
)

type commandParams struct {
	baseURL     string
	apiPath     string
	configFile  string
	envFile     string
	timeout     time.Duration
	resultsFile string
	filters     framework.RegexFilters
	debug       bool
	debugAll    bool
	progress    bool
	noSave      bool
	excelFile   string
	wait        time.Duration
	plain       bool
}

func (p *commandParams) registerConfigFlags(fs *pflag.FlagSet) {
	fs.StringVar(&p.baseURL, "url", config.DefaultBaseURL, "base URL of the platform (overrides "+config.EnvBaseURL+")")
	fs.StringVar(&p.apiPath, "api-path", config.DefaultAPIPath, "path prefix of the API routes")
	fs.StringVar(&p.configFile, "config", config.DefaultConfigFile, "YAML configuration file")
	fs.StringVar(&p.envFile, "env-file", config.DefaultEnvFile, "dotenv file to read environment variables from")
	fs.DurationVar(&p.timeout, "timeout", config.DefaultRequestTimeout, "default timeout for each request")
	fs.StringVar(&p.resultsFile, "results", "", "file where the result log of a run is saved")
}

func (p *commandParams) registerFilterFlags(fs *pflag.FlagSet) {
	fs.Var(&p.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&p.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
}

func (p *commandParams) registerRunFlags(fs *pflag.FlagSet) {
	p.registerFilterFlags(fs)
	fs.BoolVar(&p.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&p.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&p.progress, "progress", false, "show a progress bar instead of per-test output")
	fs.BoolVar(&p.noSave, "no-save", false, "do not save the result log")
	fs.StringVar(&p.excelFile, "xlsx", "", "also write the results to this Excel file")
	fs.DurationVar(&p.wait, "wait", 0, "wait up to this long for the API to respond before running")
}

// loadConfig applies the command-line flags that were set on top of the configuration sources.
func (p *commandParams) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	cfg, err := config.Load(config.Sources{
		ConfigFile: p.configFile,
		Explicit:   flags.Changed("config"),
		EnvFile:    p.envFile,
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flags.Changed("url") {
		cfg.BaseURL = p.baseURL
	}
	if flags.Changed("api-path") {
		cfg.APIPath = p.apiPath
	}
	if flags.Changed("timeout") {
		if err := cfg.SetDefaultTimeout(p.timeout); err != nil {
			return nil, err
		}
	}
	if flags.Changed("results") {
		cfg.ResultsFile = p.resultsFile
	}
	if p.noSave {
		cfg.ResultsFile = ""
	}
	if p.excelFile != "" {
		cfg.ExcelFile = p.excelFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
