package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ECLResult is the expected credit loss of one account under one macro
// scenario as of a date. Results are stored per scenario, never
// pre-aggregated, so reporting can rebuild scenario-weighted totals.
//
// Grain: (account_id, as_of_date, scenario_id).
//
// Invariants:
//   - AppliedECL = ECL12m when Stage = 1, else ECLLifetime.
//   - NetCarryingAmount = GrossCarryingAmount - AppliedECL.
type ECLResult struct {
	AccountId  string    `gorm:"primaryKey;size:64" json:"account_id"`
	AsOfDate   time.Time `gorm:"primaryKey" json:"as_of_date"`
	ScenarioId string    `gorm:"primaryKey;size:64" json:"scenario_id"`

	Stage Stage `json:"stage"`

	ECL12m      decimal.Decimal `gorm:"type:decimal(20,4)" json:"ecl_12m"`
	ECLLifetime decimal.Decimal `gorm:"type:decimal(20,4)" json:"ecl_lifetime"`
	AppliedECL  decimal.Decimal `gorm:"type:decimal(20,4)" json:"applied_ecl"`

	GrossCarryingAmount decimal.Decimal `gorm:"type:decimal(20,4)" json:"gross_carrying_amount"`
	NetCarryingAmount   decimal.Decimal `gorm:"type:decimal(20,4)" json:"net_carrying_amount"`

	DiscountFactor12m      decimal.Decimal `gorm:"type:decimal(12,8)" json:"discount_factor_12m"`
	DiscountFactorLifetime decimal.Decimal `gorm:"type:decimal(12,8)" json:"discount_factor_lifetime"`

	// Parameters actually applied, for audit.
	AppliedPD12m      decimal.Decimal `gorm:"type:decimal(12,8)" json:"applied_pd_12m"`
	AppliedPDLifetime decimal.Decimal `gorm:"type:decimal(12,8)" json:"applied_pd_lifetime"`
	AppliedLGD        decimal.Decimal `gorm:"type:decimal(12,8)" json:"applied_lgd"`
	AppliedEAD        decimal.Decimal `gorm:"type:decimal(20,4)" json:"applied_ead"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ListECLResults returns a date's results ordered by (account, scenario).
func ListECLResults(tx *gorm.DB, asOfDate time.Time) ([]ECLResult, error) {
	var rows []ECLResult
	err := tx.Where("as_of_date = ?", asOfDate).
		Order("account_id ASC, scenario_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MapECLResultsByAccount groups a date's results by account id.
func MapECLResultsByAccount(tx *gorm.DB, asOfDate time.Time) (map[string][]ECLResult, error) {
	rows, err := ListECLResults(tx, asOfDate)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]ECLResult)
	for _, r := range rows {
		out[r.AccountId] = append(out[r.AccountId], r)
	}
	return out, nil
}

// ReplaceECLResults replaces one date's results inside the given transaction.
func ReplaceECLResults(tx *gorm.DB, asOfDate time.Time, rows []ECLResult) error {
	if err := tx.Where("as_of_date = ?", asOfDate).Delete(&ECLResult{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 500).Error
}
