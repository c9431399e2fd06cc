package config

import "time"

const (
	DefaultBaseURL         = "http://localhost:3000"
	DefaultAPIPath         = "/api"
	DefaultConfigFile      = "contract-tests.yaml"
	DefaultEnvFile         = ".env"
	DefaultResultsDir      = ".contract-tests"
	DefaultResultsFile     = "last-run.json"
	DefaultRequestTimeout  = 10 * time.Second
	DefaultPurchaseTimeout = 15 * time.Second
	DefaultProbeTimeout    = 5 * time.Second
)

// Environment variables read by Load.
const (
	EnvBaseURL = "NEXT_PUBLIC_BASE_URL"
	EnvTimeout = "CONTRACT_TESTS_TIMEOUT"
)
