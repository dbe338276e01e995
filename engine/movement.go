package engine

import (
	"sort"
	"time"

	"github.com/Bar0cc0/FinancialRisk/config"
	"github.com/Bar0cc0/FinancialRisk/models"
	"github.com/shopspring/decimal"
)

// MovementInputs are the two fully materialized snapshots being bridged,
// plus the staging/parameter history needed for attribution. The analyzer
// must not start before both snapshot runs have completed; the orchestrator
// enforces that sequencing.
type MovementInputs struct {
	FromDate time.Time
	ToDate   time.Time

	OpeningResults map[string][]models.ECLResult
	ClosingResults map[string][]models.ECLResult

	OpeningStaging map[string]models.StagingRecord
	ClosingStaging map[string]models.StagingRecord

	OpeningParams map[string]models.RiskParameterRecord
	ClosingParams map[string]models.RiskParameterRecord

	OpeningSnapshots map[string]models.AccountSnapshot
	ClosingSnapshots map[string]models.AccountSnapshot
}

// AccountBridge is the per-account view the bucket rules evaluate.
type AccountBridge struct {
	AccountId string

	PresentFrom bool
	PresentTo   bool

	Opening decimal.Decimal // sum of AppliedECL across scenarios at FromDate
	Closing decimal.Decimal // sum of AppliedECL across scenarios at ToDate
	Delta   decimal.Decimal

	FromStage models.Stage
	ToStage   models.Stage

	ParamsChanged   bool // any of PD12m, PDLifetime, LGD, EAD differ
	ScenarioChanged bool // derivation scenario id differs

	// WriteOffFlagged: the account left the computed population with the
	// charge-off flag raised (on its closing snapshot row when one exists,
	// else on its opening one).
	WriteOffFlagged bool
}

// MovementRule is one entry of the ordered, exclusive bucket contract.
// The first matching rule claims the account's entire delta.
type MovementRule struct {
	Bucket  models.MovementBucket
	Applies func(b AccountBridge) bool
}

// MovementRules is the bucket precedence contract. Write-off is evaluated
// ahead of plain derecognition so a flagged charge-off is never reported as
// ordinary derecognition; write-off likewise takes precedence over the
// transfer and parameter buckets.
var MovementRules = []MovementRule{
	{Bucket: models.MovementBucketNewBusiness, Applies: func(b AccountBridge) bool {
		return !b.PresentFrom && b.PresentTo
	}},
	{Bucket: models.MovementBucketWriteOff, Applies: func(b AccountBridge) bool {
		return b.PresentFrom && !b.PresentTo && b.WriteOffFlagged
	}},
	{Bucket: models.MovementBucketDerecognition, Applies: func(b AccountBridge) bool {
		return b.PresentFrom && !b.PresentTo
	}},
	{Bucket: models.MovementBucketTransferToStage1, Applies: func(b AccountBridge) bool {
		return b.PresentFrom && b.PresentTo && b.ToStage != b.FromStage && b.ToStage == models.Stage1
	}},
	{Bucket: models.MovementBucketTransferToStage2, Applies: func(b AccountBridge) bool {
		return b.PresentFrom && b.PresentTo && b.ToStage != b.FromStage && b.ToStage == models.Stage2
	}},
	{Bucket: models.MovementBucketTransferToStage3, Applies: func(b AccountBridge) bool {
		return b.PresentFrom && b.PresentTo && b.ToStage != b.FromStage && b.ToStage == models.Stage3
	}},
	{Bucket: models.MovementBucketParameterChange, Applies: func(b AccountBridge) bool {
		return b.PresentFrom && b.PresentTo && b.ParamsChanged
	}},
	{Bucket: models.MovementBucketScenarioChange, Applies: func(b AccountBridge) bool {
		return b.PresentFrom && b.PresentTo && b.ScenarioChanged
	}},
	{Bucket: models.MovementBucketOther, Applies: func(b AccountBridge) bool {
		return b.PresentFrom && b.PresentTo && !b.Delta.IsZero()
	}},
}

// MovementAnalyzer decomposes the provision delta between two dates into
// the exclusive buckets of MovementRules.
type MovementAnalyzer struct {
	cfg config.EngineConfig
}

func NewMovementAnalyzer(cfg config.EngineConfig) *MovementAnalyzer {
	return &MovementAnalyzer{cfg: cfg}
}

// Analyze performs a full outer join on account between the two result
// snapshots and buckets every account's delta. Records come back sorted by
// account id; every reconciliation violation is reported, never dropped.
func (a *MovementAnalyzer) Analyze(in MovementInputs) ([]models.MovementRecord, RunReport) {
	ids := unionAccountIds(in.OpeningResults, in.ClosingResults)

	var report RunReport
	records := make([]models.MovementRecord, 0, len(ids))
	for _, id := range ids {
		bridge := a.buildBridge(id, in)
		rec := a.bucketize(bridge, in.FromDate, in.ToDate)
		if !rec.Reconciles() {
			report.FailReconciliation(id, rec.OpeningECL, rec.ClosingECL, rec.BucketSum())
		}
		records = append(records, rec)
	}
	return records, report
}

func (a *MovementAnalyzer) buildBridge(id string, in MovementInputs) AccountBridge {
	openingRows, presentFrom := in.OpeningResults[id]
	closingRows, presentTo := in.ClosingResults[id]

	b := AccountBridge{
		AccountId:   id,
		PresentFrom: presentFrom,
		PresentTo:   presentTo,
		Opening:     sumAppliedECL(openingRows),
		Closing:     sumAppliedECL(closingRows),
	}
	b.Delta = b.Closing.Sub(b.Opening)

	if s, ok := in.OpeningStaging[id]; ok {
		b.FromStage = s.Stage
	}
	if s, ok := in.ClosingStaging[id]; ok {
		b.ToStage = s.Stage
	}

	if fromP, ok := in.OpeningParams[id]; ok {
		if toP, ok := in.ClosingParams[id]; ok {
			b.ParamsChanged = !fromP.PD12m.Equal(toP.PD12m) ||
				!fromP.PDLifetime.Equal(toP.PDLifetime) ||
				!fromP.LGD.Equal(toP.LGD) ||
				!fromP.EAD.Equal(toP.EAD)
			b.ScenarioChanged = fromP.ScenarioId != toP.ScenarioId
		}
	}

	if snap, ok := in.ClosingSnapshots[id]; ok {
		b.WriteOffFlagged = snap.IsChargedOff
	} else if snap, ok := in.OpeningSnapshots[id]; ok {
		b.WriteOffFlagged = snap.IsChargedOff
	}

	return b
}

func (a *MovementAnalyzer) bucketize(b AccountBridge, fromDate, toDate time.Time) models.MovementRecord {
	rec := models.MovementRecord{
		AccountId:  b.AccountId,
		FromDate:   fromDate,
		ToDate:     toDate,
		OpeningECL: b.Opening,
		ClosingECL: b.Closing,
	}

	if b.Delta.IsZero() {
		return rec
	}

	for _, rule := range MovementRules {
		if !rule.Applies(b) {
			continue
		}
		switch rule.Bucket {
		case models.MovementBucketNewBusiness:
			rec.NewBusiness = b.Delta
		case models.MovementBucketDerecognition:
			rec.Derecognition = b.Delta
		case models.MovementBucketWriteOff:
			rec.WriteOff = b.Delta
		case models.MovementBucketTransferToStage1:
			rec.TransferToStage1 = b.Delta
		case models.MovementBucketTransferToStage2:
			rec.TransferToStage2 = b.Delta
		case models.MovementBucketTransferToStage3:
			rec.TransferToStage3 = b.Delta
		case models.MovementBucketParameterChange:
			rec.ParameterChange = b.Delta
		case models.MovementBucketScenarioChange:
			rec.ScenarioChange = b.Delta
		case models.MovementBucketOther:
			rec.Other = b.Delta
		}
		return rec
	}
	// A non-zero delta with no matching rule cannot reconcile; leave the
	// buckets zero so Analyze reports it instead of hiding it.
	return rec
}

func sumAppliedECL(rows []models.ECLResult) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.AppliedECL)
	}
	return sum
}

func unionAccountIds(a, b map[string][]models.ECLResult) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for id := range a {
		seen[id] = struct{}{}
	}
	for id := range b {
		seen[id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
