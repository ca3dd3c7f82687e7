package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"invoiceflow-backend/db/models"
	"invoiceflow-backend/documents/validators"
	"invoiceflow-backend/utils"

	"github.com/google/uuid"
)

var ErrNoValidationReport = errors.New("document has no validation results")

// ExportValidationReport builds an xlsx workbook with the summary, errors and
// warnings recorded for a spreadsheet upload, plus the parsed rows.
func (s *DocumentService) ExportValidationReport(ctx context.Context, user *models.User, id uuid.UUID) (string, []byte, error) {
	document, err := s.Get(ctx, user, id)
	if err != nil {
		return "", nil, err
	}
	if document.Type != models.TimesheetDocument && document.Type != models.RateCardDocument {
		return "", nil, ErrNoValidationReport
	}

	meta := document.Metadata.Data()
	sheets := []utils.ExcelSheet{
		{
			Name:    "Summary",
			Headers: []string{"Field", "Value"},
			Rows: [][]interface{}{
				{"File", document.FileName},
				{"Type", string(document.Type)},
				{"Status", string(document.Status)},
				{"Uploaded", document.CreatedAt.Format("2006-01-02 15:04")},
				{"Notes", meta.ValidationNotes},
				{"Errors", len(meta.ValidationErrors)},
				{"Warnings", len(meta.ValidationWarnings)},
			},
		},
		messageSheet("Errors", meta.ValidationErrors),
		messageSheet("Warnings", meta.ValidationWarnings),
	}

	if meta.ValidationData != nil {
		detail, err := detailSheet(document.Type, *meta.ValidationData)
		if err != nil {
			return "", nil, err
		}
		sheets = append(sheets, detail)
	}

	content, err := utils.GenerateExcel(sheets...)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build validation report: %w", err)
	}

	base := strings.TrimSuffix(document.FileName, filepath.Ext(document.FileName))
	name := fmt.Sprintf("validation_report_%s.xlsx", utils.CleanStringForFilename(base))
	return name, content, nil
}

func messageSheet(name string, messages []string) utils.ExcelSheet {
	rows := make([][]interface{}, 0, len(messages))
	for i, message := range messages {
		rows = append(rows, []interface{}{i + 1, message})
	}
	return utils.ExcelSheet{Name: name, Headers: []string{"#", "Message"}, Rows: rows}
}

func detailSheet(kind models.DocumentKind, encoded string) (utils.ExcelSheet, error) {
	if kind == models.TimesheetDocument {
		var data validators.TimesheetValidationData
		if err := json.Unmarshal([]byte(encoded), &data); err != nil {
			return utils.ExcelSheet{}, fmt.Errorf("failed to decode timesheet data: %w", err)
		}
		sheet := utils.ExcelSheet{Name: "Entries", Headers: []string{"Employee", "Date", "Project", "Hours"}}
		if data.TimesheetData != nil {
			for _, entry := range data.Entries {
				sheet.Rows = append(sheet.Rows, []interface{}{entry.Employee, entry.Date.String(), entry.Project, entry.Hours.InexactFloat64()})
			}
		}
		return sheet, nil
	}

	var data validators.RateCardValidationData
	if err := json.Unmarshal([]byte(encoded), &data); err != nil {
		return utils.ExcelSheet{}, fmt.Errorf("failed to decode rate card data: %w", err)
	}
	sheet := utils.ExcelSheet{Name: "Rates", Headers: []string{"Description", "Unit", "Rate", "Currency"}}
	for _, rate := range data.Rates {
		sheet.Rows = append(sheet.Rows, []interface{}{rate.Description, string(rate.Unit), rate.Rate.InexactFloat64(), rate.Currency})
	}
	return sheet, nil
}
