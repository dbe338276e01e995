package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Bar0cc0/FinancialRisk/config"
	"github.com/Bar0cc0/FinancialRisk/models"
	"github.com/Bar0cc0/FinancialRisk/utils"
	"github.com/xuri/excelize/v2"
)

// Exports one reporting date's ECL results (and, when a prior date is
// given, the movement bridge) as an Excel workbook for the reporting team.
func main() {
	asOf := flag.String("as-of", "", "Reporting date to export (YYYY-MM-DD). Required.")
	previous := flag.String("previous", "", "Optional: prior reporting date, adds the movement bridge sheet (YYYY-MM-DD).")
	out := flag.String("out", "", "Output file path (default ecl-report-<as-of>.xlsx)")
	flag.Parse()

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
	outPath := *out
	if outPath == "" {
		outPath = fmt.Sprintf("ecl-report-%s.xlsx", asOfDate.Format(utils.DateLayout))
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	if _, err := models.FindCompletedRun(db, asOfDate); err != nil {
		if err == utils.ErrorRecordNotFound {
			fmt.Fprintf(os.Stderr, "no completed ECL run for %s\n", asOfDate.Format(utils.DateLayout))
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "looking up run: %v\n", err)
		os.Exit(1)
	}

	results, err := models.ListECLResults(db, asOfDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading ECL results: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Fprintf(os.Stderr, "no ECL results for %s (has the run completed?)\n", asOfDate.Format(utils.DateLayout))
		os.Exit(1)
	}

	f := excelize.NewFile()
	if err := writeResultsSheet(f, results); err != nil {
		fmt.Fprintf(os.Stderr, "writing results sheet: %v\n", err)
		os.Exit(1)
	}

	if *previous != "" {
		fromDate, perr := utils.ParseDate(*previous)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "invalid -previous date: %v\n", perr)
			os.Exit(2)
		}
		movements, merr := models.ListMovementRecords(db, fromDate, asOfDate)
		if merr != nil {
			fmt.Fprintf(os.Stderr, "loading movement records: %v\n", merr)
			os.Exit(1)
		}
		if err := writeMovementSheet(f, movements); err != nil {
			fmt.Fprintf(os.Stderr, "writing movement sheet: %v\n", err)
			os.Exit(1)
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		fmt.Fprintf(os.Stderr, "saving workbook: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d result rows)\n", outPath, len(results))
}

func writeResultsSheet(f *excelize.File, results []models.ECLResult) error {
	const sheet = "ECL Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{
		"AccountId", "AsOfDate", "ScenarioId", "Stage",
		"ECL12m", "ECLLifetime", "AppliedECL",
		"GrossCarryingAmount", "NetCarryingAmount",
		"PD12m", "PDLifetime", "LGD", "EAD",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, r := range results {
		row := i + 2
		values := []interface{}{
			r.AccountId,
			r.AsOfDate.Format(utils.DateLayout),
			r.ScenarioId,
			int(r.Stage),
			r.ECL12m.InexactFloat64(),
			r.ECLLifetime.InexactFloat64(),
			r.AppliedECL.InexactFloat64(),
			r.GrossCarryingAmount.InexactFloat64(),
			r.NetCarryingAmount.InexactFloat64(),
			r.AppliedPD12m.InexactFloat64(),
			r.AppliedPDLifetime.InexactFloat64(),
			r.AppliedLGD.InexactFloat64(),
			r.AppliedEAD.InexactFloat64(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return nil
}

func writeMovementSheet(f *excelize.File, movements []models.MovementRecord) error {
	const sheet = "Movement Bridge"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{
		"AccountId", "FromDate", "ToDate", "OpeningECL", "ClosingECL",
		"NewBusiness", "Derecognition", "WriteOff",
		"TransferToStage1", "TransferToStage2", "TransferToStage3",
		"ParameterChange", "ScenarioChange", "Other",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, m := range movements {
		row := i + 2
		values := []interface{}{
			m.AccountId,
			m.FromDate.Format(utils.DateLayout),
			m.ToDate.Format(utils.DateLayout),
			m.OpeningECL.InexactFloat64(),
			m.ClosingECL.InexactFloat64(),
			m.NewBusiness.InexactFloat64(),
			m.Derecognition.InexactFloat64(),
			m.WriteOff.InexactFloat64(),
			m.TransferToStage1.InexactFloat64(),
			m.TransferToStage2.InexactFloat64(),
			m.TransferToStage3.InexactFloat64(),
			m.ParameterChange.InexactFloat64(),
			m.ScenarioChange.InexactFloat64(),
			m.Other.InexactFloat64(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return nil
}
