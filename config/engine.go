package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// EngineConfig carries every tunable of the ECL engine as one explicit,
// validated object passed into each component at construction. Nothing in
// the engine reads configuration ad hoc at runtime.
//
// Defaults below are the documented fallback policy for missing input
// fields (every substitution is still counted in the run report).
type EngineConfig struct {
	ModelVersion string `validate:"required"`

	// WorkerCount shards the account population for the pure computation
	// phases. 1 disables parallelism.
	WorkerCount int `validate:"min=1,max=256"`

	// ECLDecimalPlaces is the rounding precision of all ECL amounts.
	ECLDecimalPlaces int32 `validate:"min=0,max=4"`

	// ScenarioWeightTolerance bounds |1 - sum(active scenario weights)|
	// in multi-scenario runs.
	ScenarioWeightTolerance decimal.Decimal

	// Documented defaults for missing non-critical inputs.
	DefaultCreditScore      int             `validate:"min=300,max=850"`
	DefaultInterestRatePct  decimal.Decimal // stated rate, percent
	DefaultMaturityMonths   int             `validate:"min=1"`
	PlaceholderBalance      decimal.Decimal // never zero: zero would silently erase exposure
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ModelVersion:            "ECL-1.0",
		WorkerCount:             8,
		ECLDecimalPlaces:        2,
		ScenarioWeightTolerance: decimal.RequireFromString("0.000001"),
		DefaultCreditScore:      600,
		DefaultInterestRatePct:  decimal.RequireFromString("5.0"),
		DefaultMaturityMonths:   12,
		PlaceholderBalance:      decimal.RequireFromString("0.01"),
	}
}

// LoadEngineConfig builds the engine configuration from defaults plus
// optional env overrides (ECL_MODEL_VERSION, ECL_WORKER_COUNT).
func LoadEngineConfig() (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if v := strings.TrimSpace(os.Getenv("ECL_MODEL_VERSION")); v != "" {
		cfg.ModelVersion = v
	}
	if v := strings.TrimSpace(os.Getenv("ECL_WORKER_COUNT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.WorkerCount = n
		}
	}
	if err := validator.New().Struct(cfg); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}
