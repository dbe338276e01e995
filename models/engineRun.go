package models

import (
	"time"

	"github.com/Bar0cc0/FinancialRisk/utils"
	"gorm.io/gorm"
)

// EngineRun is the audit row of one orchestrated ECL run. The orchestrator
// also uses it to resolve "most recent prior run date" when movement
// analysis is requested without an explicit previous date.
type EngineRun struct {
	RunId    string    `gorm:"primaryKey;size:36" json:"run_id"`
	AsOfDate time.Time `gorm:"index" json:"as_of_date"`

	Status RunStatus `gorm:"size:16;index" json:"status"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`

	AccountsStaged       int `json:"accounts_staged"`
	AccountsParameterized int `json:"accounts_parameterized"`
	ECLRowsCalculated    int `json:"ecl_rows_calculated"`
	AccountsSkipped      int `json:"accounts_skipped"`
	FieldsDefaulted      int `json:"fields_defaulted"`
	MovementRows         int `json:"movement_rows"`

	ErrorText string `gorm:"size:2048" json:"error_text"`
}

// MostRecentCompletedRunDateBefore returns the latest as-of-date with a
// completed run strictly before the given date, or nil when none exists.
func MostRecentCompletedRunDateBefore(tx *gorm.DB, asOfDate time.Time) (*time.Time, error) {
	var run EngineRun
	err := tx.Where("status = ?", RunStatusCompleted).
		Where("as_of_date < ?", asOfDate).
		Order("as_of_date DESC").
		First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	d := run.AsOfDate
	return &d, nil
}

// FindCompletedRun returns the completed run for a date, the most recent
// one when a date was re-run.
func FindCompletedRun(tx *gorm.DB, asOfDate time.Time) (*EngineRun, error) {
	var run EngineRun
	err := tx.Where("status = ?", RunStatusCompleted).
		Where("as_of_date = ?", asOfDate).
		Order("started_at DESC").
		First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &run, nil
}
