package models

import (
	"time"

	"gorm.io/gorm"
)

// StagingRecord is the stage classification of one account as of a date.
//
// Grain: (account_id, as_of_date). History is append-only: a date's rows are
// replaced only by an explicit re-run of that same date.
type StagingRecord struct {
	AccountId string    `gorm:"primaryKey;size:64" json:"account_id"`
	AsOfDate  time.Time `gorm:"primaryKey" json:"as_of_date"`

	Stage         Stage `json:"stage"`
	PreviousStage Stage `json:"previous_stage"`

	// Disclosure booleans mirror the trigger predicates independently of
	// the final stage (an account can satisfy both).
	SignificantIncreaseInCreditRisk bool `json:"significant_increase_in_credit_risk"`
	CreditImpaired                  bool `json:"credit_impaired"`

	StageChangeDate   *time.Time        `json:"stage_change_date"`
	StageChangeReason StageChangeReason `gorm:"size:64" json:"stage_change_reason"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// MapStagingRecords keys a date's staging rows by account id.
func MapStagingRecords(tx *gorm.DB, asOfDate time.Time) (map[string]StagingRecord, error) {
	var rows []StagingRecord
	if err := tx.Where("as_of_date = ?", asOfDate).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]StagingRecord, len(rows))
	for _, r := range rows {
		out[r.AccountId] = r
	}
	return out, nil
}

// MapLatestStagingBefore returns, per account, the most recent staging row
// strictly before a date. Used to detect stage transitions.
func MapLatestStagingBefore(tx *gorm.DB, asOfDate time.Time) (map[string]StagingRecord, error) {
	var rows []StagingRecord
	err := tx.Raw(`
		SELECT s.* FROM staging_records s
		JOIN (
			SELECT account_id, MAX(as_of_date) AS max_date
			FROM staging_records
			WHERE as_of_date < ?
			GROUP BY account_id
		) latest ON latest.account_id = s.account_id AND latest.max_date = s.as_of_date
	`, asOfDate).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]StagingRecord, len(rows))
	for _, r := range rows {
		out[r.AccountId] = r
	}
	return out, nil
}

// ReplaceStagingRecords replaces one date's staging rows inside the given
// transaction. Re-running a date is idempotent by construction.
func ReplaceStagingRecords(tx *gorm.DB, asOfDate time.Time, rows []StagingRecord) error {
	if err := tx.Where("as_of_date = ?", asOfDate).Delete(&StagingRecord{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 500).Error
}
