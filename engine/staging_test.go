package engine

import (
	"testing"
	"time"

	"github.com/Bar0cc0/FinancialRisk/config"
	"github.com/Bar0cc0/FinancialRisk/models"
	"github.com/shopspring/decimal"
)

var testDate = time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

func performingFacts() AccountFacts {
	return AccountFacts{
		AccountId:              "ACC-001",
		CustomerId:             "CUST-001",
		AsOfDate:               testDate,
		CreditScore:            720,
		CreditScoreDecreasePct: decimal.Zero,
		CurrentBalance:         decimal.NewFromInt(1000),
		InterestRatePct:        decimal.NewFromInt(5),
		MaturityDate:           testDate.AddDate(1, 0, 0),
		CollateralType:         models.CollateralTypeVehicle,
		LoanType:               models.LoanTypeInstallment,
	}
}

func TestClassify_Stage3Triggers(t *testing.T) {
	c := NewStagingClassifier(config.DefaultEngineConfig())

	cases := []struct {
		name   string
		mutate func(*AccountFacts)
	}{
		{"defaulted", func(f *AccountFacts) { f.IsDefaulted = true }},
		{"90 days past due", func(f *AccountFacts) { f.DaysPastDue = 90 }},
		{"bankruptcy", func(f *AccountFacts) { f.InBankruptcy = true }},
		{"charged off", func(f *AccountFacts) { f.IsChargedOff = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := performingFacts()
			tc.mutate(&f)
			rec := c.Classify(f, nil)
			if rec.Stage != models.Stage3 {
				t.Fatalf("expected stage 3, got %v", rec.Stage)
			}
			if !rec.CreditImpaired {
				t.Fatalf("expected CreditImpaired disclosure flag")
			}
		})
	}
}

func TestClassify_Stage2Triggers(t *testing.T) {
	c := NewStagingClassifier(config.DefaultEngineConfig())

	cases := []struct {
		name   string
		mutate func(*AccountFacts)
	}{
		{"credit score decrease 15pct", func(f *AccountFacts) { f.CreditScoreDecreasePct = decimal.NewFromInt(15) }},
		{"30 days past due", func(f *AccountFacts) { f.DaysPastDue = 30 }},
		{"89 days past due", func(f *AccountFacts) { f.DaysPastDue = 89 }},
		{"watch list", func(f *AccountFacts) { f.OnWatchList = true }},
		{"modified", func(f *AccountFacts) { f.IsModified = true }},
		{"forbearance", func(f *AccountFacts) { f.InForbearance = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := performingFacts()
			tc.mutate(&f)
			rec := c.Classify(f, nil)
			if rec.Stage != models.Stage2 {
				t.Fatalf("expected stage 2, got %v", rec.Stage)
			}
			if !rec.SignificantIncreaseInCreditRisk {
				t.Fatalf("expected SICR disclosure flag")
			}
			if rec.CreditImpaired {
				t.Fatalf("stage 2 trigger must not mark the account credit-impaired")
			}
		})
	}
}

func TestClassify_Stage3TakesPrecedenceOverStage2(t *testing.T) {
	c := NewStagingClassifier(config.DefaultEngineConfig())

	// 90+ DPD and watch-listed: both trigger sets hold, stage 3 wins.
	f := performingFacts()
	f.DaysPastDue = 95
	f.OnWatchList = true

	rec := c.Classify(f, nil)
	if rec.Stage != models.Stage3 {
		t.Fatalf("expected stage 3, got %v", rec.Stage)
	}
	// Both disclosure booleans mirror their predicates independently.
	if !rec.CreditImpaired || !rec.SignificantIncreaseInCreditRisk {
		t.Fatalf("expected both disclosure flags, got impaired=%v sicr=%v",
			rec.CreditImpaired, rec.SignificantIncreaseInCreditRisk)
	}
}

func TestClassify_Stage1WhenNoTrigger(t *testing.T) {
	c := NewStagingClassifier(config.DefaultEngineConfig())
	rec := c.Classify(performingFacts(), nil)
	if rec.Stage != models.Stage1 {
		t.Fatalf("expected stage 1, got %v", rec.Stage)
	}
	if rec.CreditImpaired || rec.SignificantIncreaseInCreditRisk {
		t.Fatalf("unexpected disclosure flags on a clean account")
	}
}

func TestClassify_FirstRunIsNoTransition(t *testing.T) {
	c := NewStagingClassifier(config.DefaultEngineConfig())
	f := performingFacts()
	f.DaysPastDue = 45

	rec := c.Classify(f, nil)
	if rec.Stage != models.Stage2 {
		t.Fatalf("expected stage 2, got %v", rec.Stage)
	}
	if rec.PreviousStage != rec.Stage {
		t.Fatalf("first run must report previous stage = current stage, got %v", rec.PreviousStage)
	}
	if rec.StageChangeReason != models.StageChangeReasonInitial {
		t.Fatalf("expected %q, got %q", models.StageChangeReasonInitial, rec.StageChangeReason)
	}
	if rec.StageChangeDate == nil || !rec.StageChangeDate.Equal(testDate) {
		t.Fatalf("expected stage change date %v, got %v", testDate, rec.StageChangeDate)
	}
}

func TestClassify_TransitionSetsUpdateReason(t *testing.T) {
	c := NewStagingClassifier(config.DefaultEngineConfig())
	priorDate := testDate.AddDate(0, -1, 0)
	prior := &models.StagingRecord{
		AccountId:       "ACC-001",
		AsOfDate:        priorDate,
		Stage:           models.Stage1,
		PreviousStage:   models.Stage1,
		StageChangeDate: &priorDate,
	}

	f := performingFacts()
	f.DaysPastDue = 45
	rec := c.Classify(f, prior)

	if rec.PreviousStage != models.Stage1 {
		t.Fatalf("expected previous stage 1, got %v", rec.PreviousStage)
	}
	if rec.StageChangeReason != models.StageChangeReasonUpdate {
		t.Fatalf("expected %q, got %q", models.StageChangeReasonUpdate, rec.StageChangeReason)
	}
	if rec.StageChangeDate == nil || !rec.StageChangeDate.Equal(testDate) {
		t.Fatalf("expected stage change date %v, got %v", testDate, rec.StageChangeDate)
	}
}

func TestClassify_UnchangedStageKeepsPriorChangeDate(t *testing.T) {
	c := NewStagingClassifier(config.DefaultEngineConfig())
	changeDate := testDate.AddDate(0, -3, 0)
	prior := &models.StagingRecord{
		AccountId:       "ACC-001",
		AsOfDate:        testDate.AddDate(0, -1, 0),
		Stage:           models.Stage1,
		PreviousStage:   models.Stage1,
		StageChangeDate: &changeDate,
	}

	rec := c.Classify(performingFacts(), prior)
	if rec.StageChangeReason != "" {
		t.Fatalf("expected empty reason on unchanged stage, got %q", rec.StageChangeReason)
	}
	if rec.StageChangeDate == nil || !rec.StageChangeDate.Equal(changeDate) {
		t.Fatalf("expected carried-over change date %v, got %v", changeDate, rec.StageChangeDate)
	}
}

func TestStagingRules_OrderIsTheContract(t *testing.T) {
	if len(StagingRules) != 3 {
		t.Fatalf("expected 3 staging rules, got %d", len(StagingRules))
	}
	wantOrder := []models.Stage{models.Stage3, models.Stage2, models.Stage1}
	for i, rule := range StagingRules {
		if rule.Stage != wantOrder[i] {
			t.Fatalf("rule %d: expected stage %v, got %v", i, wantOrder[i], rule.Stage)
		}
	}
	// The last rule is the catch-all.
	if !StagingRules[len(StagingRules)-1].Match(performingFacts()) {
		t.Fatalf("final staging rule must match any account")
	}
}
