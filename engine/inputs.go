package engine

import (
	"strconv"
	"time"

	"github.com/Bar0cc0/FinancialRisk/config"
	"github.com/Bar0cc0/FinancialRisk/models"
	"github.com/Bar0cc0/FinancialRisk/utils"
	"github.com/shopspring/decimal"
)

// AccountFacts is one account snapshot with every optional input resolved
// to a concrete value. The engine computes only over facts, never over raw
// snapshots, so no downstream component deals with missing fields.
type AccountFacts struct {
	AccountId  string
	CustomerId string
	AsOfDate   time.Time

	DaysPastDue   int
	IsDefaulted   bool
	IsChargedOff  bool
	InForbearance bool
	IsModified    bool
	OnWatchList   bool
	InBankruptcy  bool

	CreditScore            int
	CreditScoreDecreasePct decimal.Decimal

	CurrentBalance  decimal.Decimal
	CreditLimit     decimal.Decimal
	InterestRatePct decimal.Decimal
	MaturityDate    time.Time

	CollateralType models.CollateralType
	LoanType       models.LoanType
}

var (
	pctFloor = decimal.Zero
	pctCeil  = decimal.NewFromInt(100)
)

// ResolveAccountFacts validates one snapshot and substitutes the documented
// defaults for missing non-critical fields. It returns ok=false when the
// account must be excluded from the run (missing identity or loan type);
// the exclusion and every substitution are counted in the report.
func ResolveAccountFacts(cfg config.EngineConfig, snap models.AccountSnapshot, rep *RunReport) (AccountFacts, bool) {
	if snap.AccountId == "" {
		rep.Skip(snap.AccountId, "missing account id")
		return AccountFacts{}, false
	}
	if snap.CustomerId == "" {
		rep.Skip(snap.AccountId, "missing customer id")
		return AccountFacts{}, false
	}
	if _, err := models.ParseLoanType(string(snap.LoanType)); err != nil {
		rep.Skip(snap.AccountId, "missing or invalid loan type")
		return AccountFacts{}, false
	}

	f := AccountFacts{
		AccountId:     snap.AccountId,
		CustomerId:    snap.CustomerId,
		AsOfDate:      utils.DateOnly(snap.AsOfDate),
		DaysPastDue:   snap.DaysPastDue,
		IsDefaulted:   snap.IsDefaulted,
		IsChargedOff:  snap.IsChargedOff,
		InForbearance: snap.InForbearance,
		IsModified:    snap.IsModified,
		OnWatchList:   snap.OnWatchList,
		InBankruptcy:  snap.InBankruptcy,
		LoanType:      snap.LoanType,
	}

	if f.DaysPastDue < 0 {
		rep.Default(f.AccountId, "days_past_due", "0", "negative value clamped")
		f.DaysPastDue = 0
	}

	if snap.CreditScore != nil {
		f.CreditScore = *snap.CreditScore
	} else {
		f.CreditScore = cfg.DefaultCreditScore
		rep.Default(f.AccountId, "credit_score", strconv.Itoa(cfg.DefaultCreditScore), "missing, documented default applied")
	}

	if snap.CreditScoreDecreasePct != nil {
		f.CreditScoreDecreasePct = utils.ClampDecimal(*snap.CreditScoreDecreasePct, pctFloor, pctCeil)
		if !f.CreditScoreDecreasePct.Equal(*snap.CreditScoreDecreasePct) {
			rep.Default(f.AccountId, "credit_score_decrease_pct", f.CreditScoreDecreasePct.String(), "out of range, clamped to [0,100]")
		}
	} else {
		f.CreditScoreDecreasePct = decimal.Zero
		rep.Default(f.AccountId, "credit_score_decrease_pct", "0", "missing, no deterioration assumed")
	}

	if snap.CurrentBalance != nil {
		f.CurrentBalance = *snap.CurrentBalance
		if f.CurrentBalance.IsNegative() {
			rep.Default(f.AccountId, "current_balance", cfg.PlaceholderBalance.String(), "negative balance, placeholder applied")
			f.CurrentBalance = cfg.PlaceholderBalance
		}
	} else {
		// Never a silent zero: zero would erase the exposure entirely.
		f.CurrentBalance = cfg.PlaceholderBalance
		rep.Default(f.AccountId, "current_balance", cfg.PlaceholderBalance.String(), "missing, documented placeholder applied")
	}

	if snap.CreditLimit != nil && !snap.CreditLimit.IsNegative() {
		f.CreditLimit = *snap.CreditLimit
	} else if snap.LoanType == models.LoanTypeRevolving {
		// Only revolving exposure needs a limit; treat as fully drawn.
		f.CreditLimit = f.CurrentBalance
		rep.Default(f.AccountId, "credit_limit", f.CreditLimit.String(), "missing on revolving loan, treated as fully drawn")
	}

	if snap.InterestRatePct != nil {
		f.InterestRatePct = utils.ClampDecimal(*snap.InterestRatePct, pctFloor, pctCeil)
		if !f.InterestRatePct.Equal(*snap.InterestRatePct) {
			rep.Default(f.AccountId, "interest_rate_pct", f.InterestRatePct.String(), "out of range, clamped to [0,100]")
		}
	} else {
		f.InterestRatePct = cfg.DefaultInterestRatePct
		rep.Default(f.AccountId, "interest_rate_pct", cfg.DefaultInterestRatePct.String(), "missing, documented default applied")
	}

	if snap.MaturityDate != nil {
		f.MaturityDate = utils.DateOnly(*snap.MaturityDate)
	} else {
		f.MaturityDate = f.AsOfDate.AddDate(0, cfg.DefaultMaturityMonths, 0)
		rep.Default(f.AccountId, "maturity_date", f.MaturityDate.Format(utils.DateLayout), "missing, documented default horizon applied")
	}

	switch snap.CollateralType {
	case models.CollateralTypeRealEstate, models.CollateralTypeVehicle,
		models.CollateralTypeSecurities, models.CollateralTypeNone, models.CollateralTypeOther:
		f.CollateralType = snap.CollateralType
	default:
		f.CollateralType = models.CollateralTypeNone
		rep.Default(f.AccountId, "collateral_type", string(models.CollateralTypeNone), "missing or unknown collateral type")
	}

	return f, true
}
