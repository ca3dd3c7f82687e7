// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// BuildWorkbook writes rows into the first sheet of a new workbook and
// returns the xlsx bytes.
func BuildWorkbook(t testing.TB, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("write row %d: %v", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// TimesheetHeader is the canonical header row used by timesheet fixtures.
var TimesheetHeader = []interface{}{"Employee", "Date", "Project", "Hours"}

// RateCardHeader is the canonical header row used by rate card fixtures.
var RateCardHeader = []interface{}{"Description", "Unit", "Rate", "Currency"}
