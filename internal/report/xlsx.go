// Package report renders routing results as spreadsheets.
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/fnolgest/internal/claim"
)

// SheetName is the worksheet that holds one row per document.
const SheetName = "Routing"

// Row is one document in a routing report. Result is nil when the
// document could not be processed, in which case Error is set.
type Row struct {
	File   string
	Result *claim.Result
	Error  string
}

// RowsFromResults wraps successful results as report rows.
func RowsFromResults(results []claim.Result) []Row {
	rows := make([]Row, len(results))
	for i := range results {
		rows[i] = Row{File: results[i].Source, Result: &results[i]}
	}
	return rows
}

var headers = []string{
	"File",
	"Recommended Route",
	"Reasoning",
	"Missing Fields",
	"Policy Number",
	"Policyholder Name",
	"Incident Date",
	"Claim Type",
	"Estimated Damage",
	"Initial Estimate",
	"Inconsistencies",
	"Error",
}

// WriteXLSX returns an XLSX workbook (as bytes) with a header row and one
// row per entry in rows, in order.
func WriteXLSX(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}

		write(1, r.File)
		if r.Result == nil {
			write(12, r.Error)
			continue
		}
		res := r.Result
		write(2, string(res.Route))
		write(3, res.Reason)
		write(4, strings.Join(res.Missing, ", "))
		write(5, res.Fields.Text(claim.KeyPolicyNumber))
		write(6, res.Fields.Text(claim.KeyPolicyholderName))
		write(7, res.Fields.Text(claim.KeyIncidentDate))
		write(8, res.Fields.Text(claim.KeyClaimType))
		if v := res.Fields.EstimatedDamage; v != nil {
			write(9, *v)
		}
		if v := res.Fields.InitialEstimate; v != nil {
			write(10, *v)
		}
		write(11, strings.Join(res.Fields.Inconsistencies, "; "))
	}

	_ = f.SetColWidth(SheetName, "A", "A", 36) // file
	_ = f.SetColWidth(SheetName, "B", "B", 18) // route
	_ = f.SetColWidth(SheetName, "C", "D", 48) // reasoning, missing
	_ = f.SetColWidth(SheetName, "E", "H", 18)
	_ = f.SetColWidth(SheetName, "I", "J", 16) // amounts
	_ = f.SetColWidth(SheetName, "K", "L", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
