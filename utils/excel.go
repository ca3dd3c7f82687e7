package utils

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelSheet is one worksheet of a generated workbook.
type ExcelSheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// GenerateExcel builds a workbook in memory from the given sheets and returns its bytes.
func GenerateExcel(sheets ...ExcelSheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("at least one sheet is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("error creating header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, fmt.Errorf("error naming sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("error creating sheet %s: %w", sheet.Name, err)
		}

		for col, header := range sheet.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
				return nil, fmt.Errorf("error setting header %s: %w", header, err)
			}
			if err := f.SetCellStyle(sheet.Name, cell, cell, headerStyle); err != nil {
				return nil, err
			}
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
				return nil, fmt.Errorf("error writing row %d of %s: %w", r+2, sheet.Name, err)
			}
		}
	}

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
