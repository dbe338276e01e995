package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RiskParameterRecord holds the derived credit risk parameters of one
// account as of a date, tied to the scenario used for derivation.
//
// Grain: (account_id, as_of_date). Latest derivation wins: re-running a
// date deterministically overwrites that date's rows.
type RiskParameterRecord struct {
	AccountId string    `gorm:"primaryKey;size:64" json:"account_id"`
	AsOfDate  time.Time `gorm:"primaryKey" json:"as_of_date"`

	PD12m      decimal.Decimal `gorm:"type:decimal(12,8)" json:"pd_12m"`
	PDLifetime decimal.Decimal `gorm:"type:decimal(12,8)" json:"pd_lifetime"`
	LGD        decimal.Decimal `gorm:"type:decimal(12,8)" json:"lgd"`
	EAD        decimal.Decimal `gorm:"type:decimal(20,4)" json:"ead"`
	EIR        decimal.Decimal `gorm:"type:decimal(12,8)" json:"eir"`

	MaturityMonths int `json:"maturity_months"`

	ScenarioId   string `gorm:"size:64" json:"scenario_id"`
	ModelVersion string `gorm:"size:32" json:"model_version"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// MapRiskParameters keys a date's parameter rows by account id.
func MapRiskParameters(tx *gorm.DB, asOfDate time.Time) (map[string]RiskParameterRecord, error) {
	var rows []RiskParameterRecord
	if err := tx.Where("as_of_date = ?", asOfDate).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]RiskParameterRecord, len(rows))
	for _, r := range rows {
		out[r.AccountId] = r
	}
	return out, nil
}

// ReplaceRiskParameters replaces one date's parameter rows inside the
// given transaction.
func ReplaceRiskParameters(tx *gorm.DB, asOfDate time.Time, rows []RiskParameterRecord) error {
	if err := tx.Where("as_of_date = ?", asOfDate).Delete(&RiskParameterRecord{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 500).Error
}
