package engine

import (
	"context"
	"time"

	"github.com/Bar0cc0/FinancialRisk/config"
	"github.com/Bar0cc0/FinancialRisk/models"
	"github.com/Bar0cc0/FinancialRisk/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RunOptions selects what one orchestrated run covers.
type RunOptions struct {
	AsOfDate time.Time

	// PreviousDate anchors movement analysis. Nil with CalculateMovement
	// set means "use the most recent completed run before AsOfDate"; when
	// none exists, movement is skipped silently.
	PreviousDate *time.Time

	IncludeAllScenarios bool
	CalculateMovement   bool
}

// RunCounts summarizes what one run produced.
type RunCounts struct {
	AccountsStaged        int `json:"accounts_staged"`
	AccountsParameterized int `json:"accounts_parameterized"`
	ECLRowsCalculated     int `json:"ecl_rows_calculated"`
	AccountsSkipped       int `json:"accounts_skipped"`
	FieldsDefaulted       int `json:"fields_defaulted"`
	MovementRows          int `json:"movement_rows"`
}

// RunResult is the orchestrator's return contract.
type RunResult struct {
	RunId  string           `json:"run_id"`
	Status models.RunStatus `json:"status"`
	Counts RunCounts        `json:"counts"`
	Report RunReport        `json:"report"`
}

// Orchestrator sequences staging, parameter derivation, ECL calculation
// and movement analysis for one as-of-date. It is the only externally
// invoked entry point of the engine.
type Orchestrator struct {
	db     *gorm.DB
	logger *logrus.Logger
	cfg    config.EngineConfig

	stager     *StagingClassifier
	parameters *ParameterEngine
	calculator *ECLCalculator
	movement   *MovementAnalyzer
}

func NewOrchestrator(db *gorm.DB, logger *logrus.Logger, cfg config.EngineConfig) *Orchestrator {
	return &Orchestrator{
		db:         db,
		logger:     logger,
		cfg:        cfg,
		stager:     NewStagingClassifier(cfg),
		parameters: NewParameterEngine(cfg),
		calculator: NewECLCalculator(cfg),
		movement:   NewMovementAnalyzer(cfg),
	}
}

// accountWork carries one account through the computation phases.
type accountWork struct {
	Facts   AccountFacts
	Staging models.StagingRecord
	Params  models.RiskParameterRecord
	Results []models.ECLResult
}

// Run executes the pipeline for opts.AsOfDate. A FatalInputError aborts
// before anything is persisted; every other problem is collected in the
// returned report. All output tables are written in a single transaction
// under the date's advisory lock, so re-running a date is idempotent and a
// failed run persists nothing.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (RunResult, error) {
	asOfDate := utils.DateOnly(opts.AsOfDate)
	db := o.db.WithContext(ctx)

	result := RunResult{RunId: uuid.NewString(), Status: models.RunStatusRunning}
	run := models.EngineRun{
		RunId:    result.RunId,
		AsOfDate: asOfDate,
		Status:   models.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := db.Create(&run).Error; err != nil {
		return result, err
	}

	res, err := o.execute(db, asOfDate, opts)
	res.RunId = result.RunId

	now := time.Now().UTC()
	run.FinishedAt = &now
	run.AccountsStaged = res.Counts.AccountsStaged
	run.AccountsParameterized = res.Counts.AccountsParameterized
	run.ECLRowsCalculated = res.Counts.ECLRowsCalculated
	run.AccountsSkipped = res.Counts.AccountsSkipped
	run.FieldsDefaulted = res.Counts.FieldsDefaulted
	run.MovementRows = res.Counts.MovementRows
	if err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorText = err.Error()
		res.Status = models.RunStatusFailed
	} else {
		run.Status = models.RunStatusCompleted
		res.Status = models.RunStatusCompleted
	}
	if saveErr := db.Save(&run).Error; saveErr != nil && err == nil {
		err = saveErr
		res.Status = models.RunStatusFailed
	}
	return res, err
}

func (o *Orchestrator) execute(db *gorm.DB, asOfDate time.Time, opts RunOptions) (RunResult, error) {
	result := RunResult{}

	snapshots, err := models.ListAccountSnapshots(db, asOfDate)
	if err != nil {
		return result, err
	}
	if len(snapshots) == 0 {
		return result, fatalf("account snapshot feed is empty for %s", asOfDate.Format(utils.DateLayout))
	}

	scenarios, base, err := o.loadScenarios(db, asOfDate, opts.IncludeAllScenarios)
	if err != nil {
		return result, err
	}

	priorStaging, err := models.MapLatestStagingBefore(db, asOfDate)
	if err != nil {
		return result, err
	}

	// Phases 1-3 are pure functions of the inputs and embarrassingly
	// parallel across accounts; shards merge back in account-id order.
	work, report := RunSharded(o.cfg.WorkerCount, snapshots,
		func(shard []models.AccountSnapshot, rep *RunReport) []accountWork {
			out := make([]accountWork, 0, len(shard))
			for _, snap := range shard {
				facts, ok := ResolveAccountFacts(o.cfg, snap, rep)
				if !ok {
					continue
				}
				w := accountWork{Facts: facts}

				var prior *models.StagingRecord
				if p, found := priorStaging[facts.AccountId]; found {
					prior = &p
				}
				w.Staging = o.stager.Classify(facts, prior)
				w.Params = o.parameters.Derive(facts, *base)
				for _, scenario := range scenarios {
					w.Results = append(w.Results, o.calculator.Calculate(facts, w.Staging, w.Params, scenario))
				}
				out = append(out, w)
			}
			return out
		})
	result.Report.Merge(report)

	stagingRows := make([]models.StagingRecord, 0, len(work))
	paramRows := make([]models.RiskParameterRecord, 0, len(work))
	eclRows := make([]models.ECLResult, 0, len(work)*len(scenarios))
	for _, w := range work {
		stagingRows = append(stagingRows, w.Staging)
		paramRows = append(paramRows, w.Params)
		eclRows = append(eclRows, w.Results...)
	}

	result.Counts.AccountsStaged = len(stagingRows)
	result.Counts.AccountsParameterized = len(paramRows)
	result.Counts.ECLRowsCalculated = len(eclRows)
	result.Counts.AccountsSkipped = len(result.Report.Skipped)
	result.Counts.FieldsDefaulted = len(result.Report.Defaulted)

	// Movement requires both snapshots fully materialized; the closing one
	// is the in-memory output of this run, the opening one is read back.
	var movementRows []models.MovementRecord
	var fromDate *time.Time
	if opts.CalculateMovement {
		fromDate, err = o.resolvePreviousDate(db, asOfDate, opts.PreviousDate)
		if err != nil {
			return result, err
		}
		if fromDate != nil {
			movementRows, err = o.analyzeMovement(db, *fromDate, asOfDate, work, eclRows, &result.Report)
			if err != nil {
				return result, err
			}
			result.Counts.MovementRows = len(movementRows)
		} else {
			o.logger.WithFields(logrus.Fields{
				"module":   "orchestrator",
				"asOfDate": asOfDate.Format(utils.DateLayout),
			}).Info("no prior run found, movement analysis skipped")
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if lockErr := AcquireRunLock(tx, asOfDate); lockErr != nil {
			return lockErr
		}
		defer ReleaseRunLock(tx, asOfDate)

		if txErr := models.ReplaceStagingRecords(tx, asOfDate, stagingRows); txErr != nil {
			return txErr
		}
		if txErr := models.ReplaceRiskParameters(tx, asOfDate, paramRows); txErr != nil {
			return txErr
		}
		if txErr := models.ReplaceECLResults(tx, asOfDate, eclRows); txErr != nil {
			return txErr
		}
		if fromDate != nil {
			if txErr := models.ReplaceMovementRecords(tx, *fromDate, asOfDate, movementRows); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	o.logger.WithFields(logrus.Fields{
		"module":     "orchestrator",
		"asOfDate":   asOfDate.Format(utils.DateLayout),
		"staged":     result.Counts.AccountsStaged,
		"eclRows":    result.Counts.ECLRowsCalculated,
		"skipped":    result.Counts.AccountsSkipped,
		"defaulted":  result.Counts.FieldsDefaulted,
		"movement":   result.Counts.MovementRows,
	}).Info("ECL run completed")

	return result, nil
}

// loadScenarios returns the scenario set of the run and the Base scenario
// used for parameter derivation.
func (o *Orchestrator) loadScenarios(db *gorm.DB, asOfDate time.Time, includeAll bool) ([]models.MacroScenario, *models.MacroScenario, error) {
	base, err := models.FindBaseScenario(db, asOfDate)
	if err != nil {
		return nil, nil, err
	}
	if base == nil {
		return nil, nil, fatalf("no active Base scenario for %s", asOfDate.Format(utils.DateLayout))
	}

	if !includeAll {
		// Single-scenario mode uses Base at its catalogue weight, so the
		// result is exactly the Base slice of a multi-scenario run.
		return []models.MacroScenario{*base}, base, nil
	}

	scenarios, err := models.ListActiveScenarios(db, asOfDate)
	if err != nil {
		return nil, nil, err
	}
	if len(scenarios) == 0 {
		return nil, nil, fatalf("no active scenarios for %s", asOfDate.Format(utils.DateLayout))
	}
	if len(scenarios) > 1 {
		sum := models.SumScenarioWeights(scenarios)
		if sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(o.cfg.ScenarioWeightTolerance) {
			return nil, nil, fatalf("active scenario weights sum to %s, expected 1", sum.String())
		}
	}
	return scenarios, base, nil
}

func (o *Orchestrator) resolvePreviousDate(db *gorm.DB, asOfDate time.Time, explicit *time.Time) (*time.Time, error) {
	if explicit != nil {
		d := utils.DateOnly(*explicit)
		return &d, nil
	}
	return models.MostRecentCompletedRunDateBefore(db, asOfDate)
}

func (o *Orchestrator) analyzeMovement(
	db *gorm.DB,
	fromDate, toDate time.Time,
	work []accountWork,
	eclRows []models.ECLResult,
	report *RunReport,
) ([]models.MovementRecord, error) {
	openingResults, err := models.MapECLResultsByAccount(db, fromDate)
	if err != nil {
		return nil, err
	}
	openingStaging, err := models.MapStagingRecords(db, fromDate)
	if err != nil {
		return nil, err
	}
	openingParams, err := models.MapRiskParameters(db, fromDate)
	if err != nil {
		return nil, err
	}
	openingSnapshots, err := models.MapAccountSnapshots(db, fromDate)
	if err != nil {
		return nil, err
	}
	closingSnapshots, err := models.MapAccountSnapshots(db, toDate)
	if err != nil {
		return nil, err
	}

	closingResults := make(map[string][]models.ECLResult, len(work))
	for _, r := range eclRows {
		closingResults[r.AccountId] = append(closingResults[r.AccountId], r)
	}
	closingStaging := make(map[string]models.StagingRecord, len(work))
	closingParams := make(map[string]models.RiskParameterRecord, len(work))
	for _, w := range work {
		closingStaging[w.Facts.AccountId] = w.Staging
		closingParams[w.Facts.AccountId] = w.Params
	}

	rows, movementReport := o.movement.Analyze(MovementInputs{
		FromDate:         fromDate,
		ToDate:           toDate,
		OpeningResults:   openingResults,
		ClosingResults:   closingResults,
		OpeningStaging:   openingStaging,
		ClosingStaging:   closingStaging,
		OpeningParams:    openingParams,
		ClosingParams:    closingParams,
		OpeningSnapshots: openingSnapshots,
		ClosingSnapshots: closingSnapshots,
	})
	report.Merge(movementReport)

	if n := len(movementReport.ReconciliationFailures); n > 0 {
		// A bridge that does not reconcile is a correctness bug: fail the
		// run loudly instead of persisting a wrong decomposition.
		return nil, fatalf("movement analysis failed to reconcile for %d account(s)", n)
	}
	return rows, nil
}
