package engine

import (
	"github.com/Bar0cc0/FinancialRisk/config"
	"github.com/Bar0cc0/FinancialRisk/models"
	"github.com/Bar0cc0/FinancialRisk/utils"
	"github.com/shopspring/decimal"
)

// CreditScoreBand maps a minimum credit score to base default rates.
// Bands are ordered descending; the first band whose MinScore the account
// reaches applies. Lifetime rates run roughly 2-3x the 12-month rate.
type CreditScoreBand struct {
	MinScore   int
	PD12m      decimal.Decimal
	PDLifetime decimal.Decimal
}

var CreditScoreBands = []CreditScoreBand{
	{MinScore: 750, PD12m: decimal.RequireFromString("0.005"), PDLifetime: decimal.RequireFromString("0.012")},
	{MinScore: 700, PD12m: decimal.RequireFromString("0.01"), PDLifetime: decimal.RequireFromString("0.025")},
	{MinScore: 650, PD12m: decimal.RequireFromString("0.02"), PDLifetime: decimal.RequireFromString("0.05")},
	{MinScore: 600, PD12m: decimal.RequireFromString("0.04"), PDLifetime: decimal.RequireFromString("0.10")},
	{MinScore: 550, PD12m: decimal.RequireFromString("0.08"), PDLifetime: decimal.RequireFromString("0.20")},
	{MinScore: 0, PD12m: decimal.RequireFromString("0.15"), PDLifetime: decimal.RequireFromString("0.40")},
}

// DPDSeverityBand scales base default rates by delinquency depth.
type DPDSeverityBand struct {
	MinDPD     int
	Multiplier decimal.Decimal
}

var DPDSeverityBands = []DPDSeverityBand{
	{MinDPD: 90, Multiplier: decimal.RequireFromString("9.0")},
	{MinDPD: 60, Multiplier: decimal.RequireFromString("6.0")},
	{MinDPD: 30, Multiplier: decimal.RequireFromString("3.0")},
	{MinDPD: 1, Multiplier: decimal.RequireFromString("1.5")},
	{MinDPD: 0, Multiplier: decimal.RequireFromString("1.0")},
}

// LGDByCollateral maps collateral type to loss given default.
var LGDByCollateral = map[models.CollateralType]decimal.Decimal{
	models.CollateralTypeRealEstate: decimal.RequireFromString("0.15"),
	models.CollateralTypeVehicle:    decimal.RequireFromString("0.35"),
	models.CollateralTypeSecurities: decimal.RequireFromString("0.25"),
	models.CollateralTypeNone:       decimal.RequireFromString("0.75"),
	models.CollateralTypeOther:      decimal.RequireFromString("0.50"),
}

var (
	one           = decimal.NewFromInt(1)
	half          = decimal.RequireFromString("0.5")
	hundred       = decimal.NewFromInt(100)
	lifetimeScaleDenominator = decimal.NewFromInt(60)
	lifetimeScaleFactor      = decimal.RequireFromString("0.2")
)

// BaseRatesForScore returns the band rates for a credit score.
func BaseRatesForScore(score int) (pd12m, pdLifetime decimal.Decimal) {
	for _, band := range CreditScoreBands {
		if score >= band.MinScore {
			return band.PD12m, band.PDLifetime
		}
	}
	last := CreditScoreBands[len(CreditScoreBands)-1]
	return last.PD12m, last.PDLifetime
}

// DPDMultiplier returns the delinquency severity multiplier for a DPD count.
func DPDMultiplier(daysPastDue int) decimal.Decimal {
	for _, band := range DPDSeverityBands {
		if daysPastDue >= band.MinDPD {
			return band.Multiplier
		}
	}
	return DPDSeverityBands[len(DPDSeverityBands)-1].Multiplier
}

// ParameterEngine derives PD, LGD, EAD, EIR and maturity per account,
// tied to the scenario used for derivation. Pure, storage-free.
type ParameterEngine struct {
	cfg config.EngineConfig
}

func NewParameterEngine(cfg config.EngineConfig) *ParameterEngine {
	return &ParameterEngine{cfg: cfg}
}

// Derive computes the risk parameter record of one account under the given
// derivation scenario. All outputs are clamped to their documented ranges.
func (e *ParameterEngine) Derive(f AccountFacts, scenario models.MacroScenario) models.RiskParameterRecord {
	maturityMonths := utils.MonthsBetween(f.AsOfDate, f.MaturityDate)

	pd12mBase, pdLifetimeBase := BaseRatesForScore(f.CreditScore)
	severity := DPDMultiplier(f.DaysPastDue)

	pd12m := pd12mBase.Mul(severity)

	// Longer books carry more lifetime default risk: scale by
	// 1 + (maturityMonths/60)*0.2.
	lifetimeScale := one.Add(
		decimal.NewFromInt(int64(maturityMonths)).
			Div(lifetimeScaleDenominator).
			Mul(lifetimeScaleFactor),
	)
	pdLifetime := pdLifetimeBase.Mul(severity).Mul(lifetimeScale)

	pd12m = utils.ClampDecimal(pd12m, decimal.Zero, one)
	pdLifetime = utils.ClampDecimal(pdLifetime, decimal.Zero, one)

	lgd, ok := LGDByCollateral[f.CollateralType]
	if !ok {
		lgd = LGDByCollateral[models.CollateralTypeNone]
	}

	ead := f.CurrentBalance
	if f.LoanType == models.LoanTypeRevolving {
		// Undrawn headroom converts at a 50% credit conversion factor.
		ead = f.CurrentBalance.Add(half.Mul(f.CreditLimit.Sub(f.CurrentBalance)))
	}
	if ead.IsNegative() {
		ead = decimal.Zero
	}

	eir := f.InterestRatePct.Div(hundred)
	if eir.IsNegative() {
		eir = decimal.Zero
	}

	return models.RiskParameterRecord{
		AccountId:      f.AccountId,
		AsOfDate:       f.AsOfDate,
		PD12m:          pd12m,
		PDLifetime:     pdLifetime,
		LGD:            lgd,
		EAD:            ead,
		EIR:            eir,
		MaturityMonths: maturityMonths,
		ScenarioId:     scenario.ScenarioId,
		ModelVersion:   e.cfg.ModelVersion,
	}
}
