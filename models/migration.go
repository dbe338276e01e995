package models

import (
	"log"

	"github.com/Bar0cc0/FinancialRisk/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&AccountSnapshot{}, &MacroScenario{},
		&StagingRecord{}, &RiskParameterRecord{}, &ECLResult{}, &MovementRecord{},
		&EngineRun{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
