package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BaseScenarioName is the scenario used for parameter derivation and for
// single-scenario runs.
const BaseScenarioName = "Base"

// MacroScenario is one macroeconomic forecast with its probability weight.
// The weights of scenarios active on a date must sum to 1 when the engine
// runs in multi-scenario mode; the orchestrator enforces the tolerance.
type MacroScenario struct {
	ScenarioId string `gorm:"primaryKey;size:64" json:"scenario_id" validate:"required"`
	Name       string `gorm:"size:64;index" json:"name" validate:"required"`

	Weight decimal.Decimal `gorm:"type:decimal(12,8)" json:"weight"`

	GdpGrowthPct       decimal.Decimal `gorm:"type:decimal(8,4)" json:"gdp_growth_pct"`
	UnemploymentPct    decimal.Decimal `gorm:"type:decimal(8,4)" json:"unemployment_pct"`
	HousePriceIndex    decimal.Decimal `gorm:"type:decimal(12,4)" json:"house_price_index"`
	InterestRatePct    decimal.Decimal `gorm:"type:decimal(8,4)" json:"interest_rate_pct"`
	InflationPct       decimal.Decimal `gorm:"type:decimal(8,4)" json:"inflation_pct"`

	EffectiveDate time.Time  `json:"effective_date"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ListActiveScenarios returns scenarios active on a date, ordered by
// scenario id for deterministic iteration.
func ListActiveScenarios(tx *gorm.DB, asOfDate time.Time) ([]MacroScenario, error) {
	var rows []MacroScenario
	err := tx.Where("is_active = ?", true).
		Where("effective_date <= ?", asOfDate).
		Where("expiry_date IS NULL OR expiry_date >= ?", asOfDate).
		Order("scenario_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindBaseScenario returns the Base scenario active on a date.
func FindBaseScenario(tx *gorm.DB, asOfDate time.Time) (*MacroScenario, error) {
	var row MacroScenario
	err := tx.Where("is_active = ?", true).
		Where("name = ?", BaseScenarioName).
		Where("effective_date <= ?", asOfDate).
		Where("expiry_date IS NULL OR expiry_date >= ?", asOfDate).
		Order("scenario_id ASC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// SumScenarioWeights adds the probability weights of a scenario set.
func SumScenarioWeights(scenarios []MacroScenario) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range scenarios {
		sum = sum.Add(s.Weight)
	}
	return sum
}
