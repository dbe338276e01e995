package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementRecord decomposes one account's ECL change between two reporting
// dates into exclusive attribution buckets.
//
// Grain: (account_id, from_date, to_date).
//
// Invariant: OpeningECL + sum of all buckets = ClosingECL, exactly, at
// calculation rounding precision. A violation is a correctness bug and is
// raised by the analyzer, never rounded away.
type MovementRecord struct {
	AccountId string    `gorm:"primaryKey;size:64" json:"account_id"`
	FromDate  time.Time `gorm:"primaryKey" json:"from_date"`
	ToDate    time.Time `gorm:"primaryKey" json:"to_date"`

	OpeningECL decimal.Decimal `gorm:"type:decimal(20,4)" json:"opening_ecl"`
	ClosingECL decimal.Decimal `gorm:"type:decimal(20,4)" json:"closing_ecl"`

	NewBusiness      decimal.Decimal `gorm:"type:decimal(20,4)" json:"new_business"`
	Derecognition    decimal.Decimal `gorm:"type:decimal(20,4)" json:"derecognition"`
	WriteOff         decimal.Decimal `gorm:"type:decimal(20,4)" json:"write_off"`
	TransferToStage1 decimal.Decimal `gorm:"type:decimal(20,4)" json:"transfer_to_stage_1"`
	TransferToStage2 decimal.Decimal `gorm:"type:decimal(20,4)" json:"transfer_to_stage_2"`
	TransferToStage3 decimal.Decimal `gorm:"type:decimal(20,4)" json:"transfer_to_stage_3"`
	ParameterChange  decimal.Decimal `gorm:"type:decimal(20,4)" json:"parameter_change"`
	ScenarioChange   decimal.Decimal `gorm:"type:decimal(20,4)" json:"scenario_change"`
	Other            decimal.Decimal `gorm:"type:decimal(20,4)" json:"other"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BucketSum adds every attribution bucket of the record.
func (m MovementRecord) BucketSum() decimal.Decimal {
	return m.NewBusiness.
		Add(m.Derecognition).
		Add(m.WriteOff).
		Add(m.TransferToStage1).
		Add(m.TransferToStage2).
		Add(m.TransferToStage3).
		Add(m.ParameterChange).
		Add(m.ScenarioChange).
		Add(m.Other)
}

// Reconciles reports whether opening + buckets = closing.
func (m MovementRecord) Reconciles() bool {
	return m.OpeningECL.Add(m.BucketSum()).Equal(m.ClosingECL)
}

// ListMovementRecords returns the bridge rows for a date pair, ordered by
// account id.
func ListMovementRecords(tx *gorm.DB, fromDate, toDate time.Time) ([]MovementRecord, error) {
	var rows []MovementRecord
	err := tx.Where("from_date = ? AND to_date = ?", fromDate, toDate).
		Order("account_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceMovementRecords replaces the bridge rows of one date pair inside
// the given transaction.
func ReplaceMovementRecords(tx *gorm.DB, fromDate, toDate time.Time, rows []MovementRecord) error {
	err := tx.Where("from_date = ? AND to_date = ?", fromDate, toDate).
		Delete(&MovementRecord{}).Error
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 500).Error
}
