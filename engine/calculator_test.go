package engine

import (
	"testing"

	"github.com/Bar0cc0/FinancialRisk/config"
	"github.com/Bar0cc0/FinancialRisk/models"
	"github.com/shopspring/decimal"
)

func testParams() models.RiskParameterRecord {
	return models.RiskParameterRecord{
		AccountId:      "ACC-001",
		AsOfDate:       testDate,
		PD12m:          decimal.RequireFromString("0.03"),
		PDLifetime:     decimal.RequireFromString("0.078"),
		LGD:            decimal.RequireFromString("0.35"),
		EAD:            decimal.NewFromInt(3000),
		EIR:            decimal.RequireFromString("0.05"),
		MaturityMonths: 12,
		ScenarioId:     "SCEN-BASE",
	}
}

func stagingAt(stage models.Stage) models.StagingRecord {
	return models.StagingRecord{
		AccountId: "ACC-001",
		AsOfDate:  testDate,
		Stage:     stage,
	}
}

func TestDiscountFactor12m_CapsHorizonAtTwelveMonths(t *testing.T) {
	eir := decimal.RequireFromString("0.05")

	atTwelve := DiscountFactor12m(eir, 12)
	atSixty := DiscountFactor12m(eir, 60)
	if !atTwelve.Equal(atSixty) {
		t.Fatalf("12m discounting must cap at 12 months: %s vs %s", atTwelve, atSixty)
	}
	// (1.05)^-1 = 0.95238095 at stored precision.
	if !atTwelve.Equal(decimal.RequireFromString("0.95238095")) {
		t.Fatalf("discount factor = %s, want 0.95238095", atTwelve)
	}

	atSix := DiscountFactor12m(eir, 6)
	if !atSix.GreaterThan(atTwelve) {
		t.Fatalf("shorter horizon must discount less: %s <= %s", atSix, atTwelve)
	}
}

// The lifetime convention divides by 24, not 12. That halves the effective
// discounting rate relative to the 12-month convention and is reproduced
// from the approved model on purpose.
func TestDiscountFactorLifetime_UsesTwentyFourMonthConvention(t *testing.T) {
	eir := decimal.RequireFromString("0.05")

	// m=24: (1.05)^(-24/24) = (1.05)^-1.
	if got := DiscountFactorLifetime(eir, 24); !got.Equal(decimal.RequireFromString("0.95238095")) {
		t.Fatalf("lifetime discount at 24 months = %s, want 0.95238095", got)
	}
	// m=24 lifetime equals m=12 12-month factor: the convention is shallower.
	if !DiscountFactorLifetime(eir, 24).Equal(DiscountFactor12m(eir, 12)) {
		t.Fatalf("24-month lifetime factor must equal 12-month horizon factor")
	}
}

func TestCalculate_Stage1AppliesTwelveMonthECL(t *testing.T) {
	c := NewECLCalculator(config.DefaultEngineConfig())
	f := performingFacts()
	f.CurrentBalance = decimal.NewFromInt(3000)

	res := c.Calculate(f, stagingAt(models.Stage1), testParams(), testScenario())

	if !res.AppliedECL.Equal(res.ECL12m) {
		t.Fatalf("stage 1 must apply ECL12m: applied=%s ecl12m=%s", res.AppliedECL, res.ECL12m)
	}
	// 0.03 * 0.35 * 3000 * 0.95238095 * 0.6 = 18.00 at 2 dp.
	if !res.ECL12m.Equal(decimal.RequireFromString("18.00")) {
		t.Fatalf("ECL12m = %s, want 18.00", res.ECL12m)
	}
	if !res.NetCarryingAmount.Equal(res.GrossCarryingAmount.Sub(res.AppliedECL)) {
		t.Fatalf("net %s != gross %s - applied %s", res.NetCarryingAmount, res.GrossCarryingAmount, res.AppliedECL)
	}
}

func TestCalculate_Stage2And3ApplyLifetimeECL(t *testing.T) {
	c := NewECLCalculator(config.DefaultEngineConfig())
	f := performingFacts()

	for _, stage := range []models.Stage{models.Stage2, models.Stage3} {
		res := c.Calculate(f, stagingAt(stage), testParams(), testScenario())
		if !res.AppliedECL.Equal(res.ECLLifetime) {
			t.Fatalf("stage %v must apply lifetime ECL: applied=%s lifetime=%s",
				stage, res.AppliedECL, res.ECLLifetime)
		}
		if !res.NetCarryingAmount.Equal(res.GrossCarryingAmount.Sub(res.AppliedECL)) {
			t.Fatalf("stage %v: net does not equal gross - applied", stage)
		}
	}
}

func TestCalculate_AmountsRoundedToTwoDecimals(t *testing.T) {
	c := NewECLCalculator(config.DefaultEngineConfig())
	f := performingFacts()
	f.CurrentBalance = decimal.RequireFromString("1234.5678")

	params := testParams()
	params.EAD = decimal.RequireFromString("1234.5678")

	res := c.Calculate(f, stagingAt(models.Stage2), params, testScenario())
	for name, v := range map[string]decimal.Decimal{
		"ECL12m":      res.ECL12m,
		"ECLLifetime": res.ECLLifetime,
		"AppliedECL":  res.AppliedECL,
	} {
		if v.Exponent() < -2 {
			t.Errorf("%s = %s, expected at most 2 decimal places", name, v)
		}
	}
}

// Per-scenario rows carry the scenario weight, so summing the rows of a
// weighted scenario set reproduces the probability-weighted total, and the
// Base row of a multi-scenario run equals a Base-only run.
func TestCalculate_ScenarioWeighting(t *testing.T) {
	c := NewECLCalculator(config.DefaultEngineConfig())
	f := performingFacts()
	params := testParams()
	staging := stagingAt(models.Stage1)

	base := testScenario() // weight 0.60
	upside := models.MacroScenario{ScenarioId: "SCEN-UPSIDE", Name: "Upside", Weight: decimal.RequireFromString("0.20")}
	downside := models.MacroScenario{ScenarioId: "SCEN-DOWNSIDE", Name: "Downside", Weight: decimal.RequireFromString("0.20")}

	baseRow := c.Calculate(f, staging, params, base)
	upsideRow := c.Calculate(f, staging, params, upside)
	downsideRow := c.Calculate(f, staging, params, downside)

	// Same parameters under every scenario: the weighted rows must be in
	// proportion to their weights (up to rounding at 2 dp).
	weighted := upsideRow.AppliedECL.Add(downsideRow.AppliedECL)
	twiceUpside := upsideRow.AppliedECL.Mul(decimal.NewFromInt(2))
	if !weighted.Equal(twiceUpside) {
		t.Fatalf("equal-weight scenario rows differ: %s vs %s", upsideRow.AppliedECL, downsideRow.AppliedECL)
	}

	// Base slice of the multi-scenario run is exactly the Base-only result.
	baseOnly := c.Calculate(f, staging, params, base)
	if !baseRow.AppliedECL.Equal(baseOnly.AppliedECL) {
		t.Fatalf("base slice %s != base-only run %s", baseRow.AppliedECL, baseOnly.AppliedECL)
	}
}

func TestCalculate_RecordsAppliedParameters(t *testing.T) {
	c := NewECLCalculator(config.DefaultEngineConfig())
	params := testParams()

	res := c.Calculate(performingFacts(), stagingAt(models.Stage1), params, testScenario())
	if !res.AppliedPD12m.Equal(params.PD12m) ||
		!res.AppliedPDLifetime.Equal(params.PDLifetime) ||
		!res.AppliedLGD.Equal(params.LGD) ||
		!res.AppliedEAD.Equal(params.EAD) {
		t.Fatalf("result must carry the parameters actually applied")
	}
}
