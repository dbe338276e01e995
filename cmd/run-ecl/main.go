package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Bar0cc0/FinancialRisk/config"
	"github.com/Bar0cc0/FinancialRisk/engine"
	"github.com/Bar0cc0/FinancialRisk/models"
	"github.com/Bar0cc0/FinancialRisk/utils"
)

func main() {
	asOf := flag.String("as-of", "", "Reporting date to run (YYYY-MM-DD). Required.")
	previous := flag.String("previous", "", "Optional: prior reporting date for movement analysis (YYYY-MM-DD). Defaults to the most recent completed run.")
	allScenarios := flag.Bool("all-scenarios", false, "Calculate ECL under every active scenario instead of Base only")
	movement := flag.Bool("movement", false, "Run movement analysis against the prior reporting date")
	flag.Parse()

	logger := config.GetLogger()

	if *asOf == "" {
		fmt.Fprintln(os.Stderr, "missing required flag -as-of")
		flag.Usage()
		os.Exit(2)
	}
	asOfDate, err := utils.ParseDate(*asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -as-of date: %v\n", err)
		os.Exit(2)
	}

	opts := engine.RunOptions{
		AsOfDate:            asOfDate,
		IncludeAllScenarios: *allScenarios,
		CalculateMovement:   *movement,
	}
	if *previous != "" {
		prevDate, perr := utils.ParseDate(*previous)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "invalid -previous date: %v\n", perr)
			os.Exit(2)
		}
		opts.PreviousDate = &prevDate
	}

	cfg, err := config.LoadEngineConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid engine configuration: %v\n", err)
		os.Exit(1)
	}

	// Explicit DB connect (config does not connect in init()).
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	orchestrator := engine.NewOrchestrator(db, logger, cfg)
	result, err := orchestrator.Run(context.Background(), opts)
	if err != nil {
		config.LogError(logger, "run-ecl", "main", "ECL run failed", result.RunId, err)
		if engine.IsFatalInputError(err) {
			os.Exit(3)
		}
		os.Exit(1)
	}

	fmt.Printf("run %s completed: staged=%d parameterized=%d eclRows=%d skipped=%d defaulted=%d movementRows=%d\n",
		result.RunId,
		result.Counts.AccountsStaged,
		result.Counts.AccountsParameterized,
		result.Counts.ECLRowsCalculated,
		result.Counts.AccountsSkipped,
		result.Counts.FieldsDefaulted,
		result.Counts.MovementRows,
	)
}
