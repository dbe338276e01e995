package engine

import (
	"github.com/Bar0cc0/FinancialRisk/config"
	"github.com/Bar0cc0/FinancialRisk/models"
	"github.com/shopspring/decimal"
)

var scoreDecreaseThreshold = decimal.NewFromInt(15)

// CreditImpaired is the stage-3 trigger predicate: the account is in
// default or deep delinquency.
func CreditImpaired(f AccountFacts) bool {
	return f.IsDefaulted || f.DaysPastDue >= 90 || f.InBankruptcy || f.IsChargedOff
}

// SignificantIncreaseInCreditRisk is the stage-2 trigger predicate. It is
// evaluated independently of the stage-3 predicate for disclosure: an
// account can satisfy both, and still lands in stage 3.
func SignificantIncreaseInCreditRisk(f AccountFacts) bool {
	return f.CreditScoreDecreasePct.GreaterThanOrEqual(scoreDecreaseThreshold) ||
		(f.DaysPastDue >= 30 && f.DaysPastDue <= 89) ||
		f.OnWatchList ||
		f.IsModified ||
		f.InForbearance
}

// StagingRule is one entry of the ordered classification contract.
type StagingRule struct {
	Name  string
	Stage models.Stage
	Match func(AccountFacts) bool
}

// StagingRules is the business-rule contract of stage classification,
// evaluated strictly in order, first match wins. The ordering is part of
// the contract: an account hitting both a stage-3 and a stage-2 trigger is
// stage 3.
var StagingRules = []StagingRule{
	{Name: "credit-impaired", Stage: models.Stage3, Match: CreditImpaired},
	{Name: "significant increase in credit risk", Stage: models.Stage2, Match: SignificantIncreaseInCreditRisk},
	{Name: "performing", Stage: models.Stage1, Match: func(AccountFacts) bool { return true }},
}

// StagingClassifier assigns IFRS 9 stages as of a date. It is pure: all
// inputs arrive as arguments, nothing is read from storage.
type StagingClassifier struct {
	cfg config.EngineConfig
}

func NewStagingClassifier(cfg config.EngineConfig) *StagingClassifier {
	return &StagingClassifier{cfg: cfg}
}

// Classify produces the staging record for one account. prior is the most
// recent staging row before the as-of-date, nil on first classification.
func (c *StagingClassifier) Classify(f AccountFacts, prior *models.StagingRecord) models.StagingRecord {
	rec := models.StagingRecord{
		AccountId:                       f.AccountId,
		AsOfDate:                        f.AsOfDate,
		SignificantIncreaseInCreditRisk: SignificantIncreaseInCreditRisk(f),
		CreditImpaired:                  CreditImpaired(f),
	}

	for _, rule := range StagingRules {
		if rule.Match(f) {
			rec.Stage = rule.Stage
			break
		}
	}

	if prior == nil {
		// First classification is defined as "no transition".
		rec.PreviousStage = rec.Stage
		d := f.AsOfDate
		rec.StageChangeDate = &d
		rec.StageChangeReason = models.StageChangeReasonInitial
		return rec
	}

	rec.PreviousStage = prior.Stage
	if rec.Stage != prior.Stage {
		d := f.AsOfDate
		rec.StageChangeDate = &d
		rec.StageChangeReason = models.StageChangeReasonUpdate
	} else {
		rec.StageChangeDate = prior.StageChangeDate
		rec.StageChangeReason = ""
	}
	return rec
}
