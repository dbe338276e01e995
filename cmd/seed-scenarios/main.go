package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Bar0cc0/FinancialRisk/config"
	"github.com/Bar0cc0/FinancialRisk/models"
	"github.com/Bar0cc0/FinancialRisk/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Seeds the standard three-scenario set (Base 60%, Upside 20%, Downside 20%)
// effective from a given date. Existing rows with the same scenario ids are
// replaced; everything else in the catalogue is left untouched.
func main() {
	effective := flag.String("effective", "", "Effective date of the scenario set (YYYY-MM-DD). Required.")
	flag.Parse()

	if *effective == "" {
		fmt.Fprintln(os.Stderr, "missing required flag -effective")
		flag.Usage()
		os.Exit(2)
	}
	effectiveDate, err := utils.ParseDate(*effective)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -effective date: %v\n", err)
		os.Exit(2)
	}

	scenarios := standardScenarios(effectiveDate)

	v := validator.New()
	for _, s := range scenarios {
		if verr := v.Struct(s); verr != nil {
			fmt.Fprintf(os.Stderr, "scenario %s failed validation: %v\n", s.ScenarioId, verr)
			os.Exit(1)
		}
		if s.Weight.IsNegative() || s.Weight.GreaterThan(decimal.NewFromInt(1)) {
			fmt.Fprintf(os.Stderr, "scenario %s weight out of [0,1]: %s\n", s.ScenarioId, s.Weight)
			os.Exit(1)
		}
	}
	if sum := models.SumScenarioWeights(scenarios); !sum.Equal(decimal.NewFromInt(1)) {
		fmt.Fprintf(os.Stderr, "scenario weights sum to %s, expected 1\n", sum)
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	for _, s := range scenarios {
		if err := db.Save(&s).Error; err != nil {
			config.LogError(config.GetLogger(), "seed-scenarios", "main", "saving scenario", s.ScenarioId, err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded %d scenarios effective %s\n", len(scenarios), effectiveDate.Format(utils.DateLayout))
}

func standardScenarios(effectiveDate time.Time) []models.MacroScenario {
	return []models.MacroScenario{
		{
			ScenarioId:      "SCEN-BASE",
			Name:            models.BaseScenarioName,
			Weight:          decimal.RequireFromString("0.60"),
			GdpGrowthPct:    decimal.RequireFromString("2.0"),
			UnemploymentPct: decimal.RequireFromString("4.5"),
			HousePriceIndex: decimal.RequireFromString("100.0"),
			InterestRatePct: decimal.RequireFromString("4.0"),
			InflationPct:    decimal.RequireFromString("2.5"),
			EffectiveDate:   effectiveDate,
			IsActive:        true,
		},
		{
			ScenarioId:      "SCEN-UPSIDE",
			Name:            "Upside",
			Weight:          decimal.RequireFromString("0.20"),
			GdpGrowthPct:    decimal.RequireFromString("3.5"),
			UnemploymentPct: decimal.RequireFromString("3.5"),
			HousePriceIndex: decimal.RequireFromString("108.0"),
			InterestRatePct: decimal.RequireFromString("3.5"),
			InflationPct:    decimal.RequireFromString("2.0"),
			EffectiveDate:   effectiveDate,
			IsActive:        true,
		},
		{
			ScenarioId:      "SCEN-DOWNSIDE",
			Name:            "Downside",
			Weight:          decimal.RequireFromString("0.20"),
			GdpGrowthPct:    decimal.RequireFromString("-1.0"),
			UnemploymentPct: decimal.RequireFromString("7.5"),
			HousePriceIndex: decimal.RequireFromString("88.0"),
			InterestRatePct: decimal.RequireFromString("5.5"),
			InflationPct:    decimal.RequireFromString("4.0"),
			EffectiveDate:   effectiveDate,
			IsActive:        true,
		},
	}
}
