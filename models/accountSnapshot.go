package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountSnapshot is the read-only account/loan fact feed owned by the
// warehouse layer. One row per active account per as-of-date.
//
// Grain: (account_id, as_of_date).
//
// Optional numeric inputs are pointers: a NULL means "substitute the
// documented default and count it in the run report", never a silent zero.
type AccountSnapshot struct {
	AccountId  string    `gorm:"primaryKey;size:64" json:"account_id"`
	AsOfDate   time.Time `gorm:"primaryKey" json:"as_of_date"`
	CustomerId string    `gorm:"size:64;index" json:"customer_id"`

	DaysPastDue   int  `gorm:"default:0" json:"days_past_due"`
	IsDefaulted   bool `gorm:"default:false" json:"is_defaulted"`
	IsChargedOff  bool `gorm:"default:false" json:"is_charged_off"`
	InForbearance bool `gorm:"default:false" json:"in_forbearance"`
	IsModified    bool `gorm:"default:false" json:"is_modified"`
	OnWatchList   bool `gorm:"default:false" json:"on_watch_list"`
	InBankruptcy  bool `gorm:"default:false" json:"in_bankruptcy"`

	CreditScore            *int             `json:"credit_score"`
	CreditScoreDecreasePct *decimal.Decimal `gorm:"type:decimal(8,4)" json:"credit_score_decrease_pct"`

	CurrentBalance  *decimal.Decimal `gorm:"type:decimal(20,4)" json:"current_balance"`
	CreditLimit     *decimal.Decimal `gorm:"type:decimal(20,4)" json:"credit_limit"`
	InterestRatePct *decimal.Decimal `gorm:"type:decimal(8,4)" json:"interest_rate_pct"`
	MaturityDate    *time.Time       `json:"maturity_date"`

	CollateralType CollateralType `gorm:"size:32" json:"collateral_type"`
	LoanType       LoanType       `gorm:"size:32" json:"loan_type"`
}

// ListAccountSnapshots returns the full active population for a date,
// ordered by account id (the deterministic merge key of the run).
func ListAccountSnapshots(tx *gorm.DB, asOfDate time.Time) ([]AccountSnapshot, error) {
	var rows []AccountSnapshot
	err := tx.Where("as_of_date = ?", asOfDate).
		Order("account_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MapAccountSnapshots keys a date's snapshots by account id.
func MapAccountSnapshots(tx *gorm.DB, asOfDate time.Time) (map[string]AccountSnapshot, error) {
	rows, err := ListAccountSnapshots(tx, asOfDate)
	if err != nil {
		return nil, err
	}
	out := make(map[string]AccountSnapshot, len(rows))
	for _, r := range rows {
		out[r.AccountId] = r
	}
	return out, nil
}
