package engine

import (
	"math"

	"github.com/Bar0cc0/FinancialRisk/config"
	"github.com/Bar0cc0/FinancialRisk/models"
	"github.com/shopspring/decimal"
)

// discountFactorPrecision is the stored precision of discount factors; the
// same rounded factor feeds the ECL multiplication so stored inputs exactly
// reproduce stored outputs.
const discountFactorPrecision = 8

// ECLCalculator computes discounted expected credit loss per account per
// scenario. Pure, storage-free.
type ECLCalculator struct {
	cfg config.EngineConfig
}

func NewECLCalculator(cfg config.EngineConfig) *ECLCalculator {
	return &ECLCalculator{cfg: cfg}
}

// DiscountFactor12m discounts the 12-month horizon: (1+EIR)^(-min(m,12)/12).
func DiscountFactor12m(eir decimal.Decimal, maturityMonths int) decimal.Decimal {
	horizon := maturityMonths
	if horizon > 12 {
		horizon = 12
	}
	return discountFactor(eir, float64(horizon)/12.0)
}

// DiscountFactorLifetime discounts the lifetime horizon: (1+EIR)^(-m/24).
// The /24 convention (not /12) halves the effective discounting rate for
// the lifetime horizon. It is reproduced as-is from the approved model and
// flagged for business-owner review; do not "fix" it here.
func DiscountFactorLifetime(eir decimal.Decimal, maturityMonths int) decimal.Decimal {
	return discountFactor(eir, float64(maturityMonths)/24.0)
}

func discountFactor(eir decimal.Decimal, years float64) decimal.Decimal {
	rate, _ := eir.Float64()
	if rate < 0 {
		rate = 0
	}
	f := math.Pow(1+rate, -years)
	return decimal.NewFromFloat(f).Round(discountFactorPrecision)
}

// Calculate produces the ECL result of one account under one scenario.
// The scenario weight is baked into the stored amounts: summing the rows
// of all active scenarios yields the probability-weighted total.
func (c *ECLCalculator) Calculate(
	f AccountFacts,
	staging models.StagingRecord,
	params models.RiskParameterRecord,
	scenario models.MacroScenario,
) models.ECLResult {
	disc12 := DiscountFactor12m(params.EIR, params.MaturityMonths)
	discLife := DiscountFactorLifetime(params.EIR, params.MaturityMonths)

	base := params.LGD.Mul(params.EAD).Mul(scenario.Weight)
	ecl12m := params.PD12m.Mul(base).Mul(disc12).Round(c.cfg.ECLDecimalPlaces)
	eclLifetime := params.PDLifetime.Mul(base).Mul(discLife).Round(c.cfg.ECLDecimalPlaces)

	applied := eclLifetime
	if staging.Stage == models.Stage1 {
		applied = ecl12m
	}

	gross := f.CurrentBalance
	return models.ECLResult{
		AccountId:              f.AccountId,
		AsOfDate:               f.AsOfDate,
		ScenarioId:             scenario.ScenarioId,
		Stage:                  staging.Stage,
		ECL12m:                 ecl12m,
		ECLLifetime:            eclLifetime,
		AppliedECL:             applied,
		GrossCarryingAmount:    gross,
		NetCarryingAmount:      gross.Sub(applied),
		DiscountFactor12m:      disc12,
		DiscountFactorLifetime: discLife,
		AppliedPD12m:           params.PD12m,
		AppliedPDLifetime:      params.PDLifetime,
		AppliedLGD:             params.LGD,
		AppliedEAD:             params.EAD,
	}
}
