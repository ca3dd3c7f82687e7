package extractors

import (
	"invoiceflow-backend/utils"

	"github.com/shopspring/decimal"
)

const noTimesheetEntriesError = "No valid timesheet entries found"

var timesheetColumns = columnAliases{
	"employee": {"employee", "employee name", "name", "resource", "resource name", "consultant", "staff"},
	"date":     {"date", "work date", "entry date", "day"},
	"project":  {"project", "project name", "project code", "project id"},
	"hours":    {"hours", "hours worked", "hrs", "total hours", "time"},
}

var requiredTimesheetColumns = []string{"employee", "date", "project", "hours"}

type TimesheetEntry struct {
	Employee string          `json:"employee"`
	Date     utils.DateOnly  `json:"date"`
	Project  string          `json:"project"`
	Hours    decimal.Decimal `json:"hours"`
}

type DateRange struct {
	Start *utils.DateOnly `json:"start"`
	End   *utils.DateOnly `json:"end"`
}

type TimesheetData struct {
	Entries      []TimesheetEntry `json:"entries"`
	TotalHours   decimal.Decimal  `json:"totalHours"`
	TotalEntries int              `json:"totalEntries"`
	Employees    []string         `json:"employees"`
	Projects     []string         `json:"projects"`
	DateRange    DateRange        `json:"dateRange"`
}

type TimesheetExtraction struct {
	Success    bool                 `json:"success"`
	Error      string               `json:"error,omitempty"`
	Data       *TimesheetData       `json:"data"`
	Validation StructuralValidation `json:"validation"`
}

// ExtractTimesheet reads employee/date/project/hours rows from the first
// worksheet. Rows with unusable cells are skipped with a warning.
func ExtractTimesheet(content []byte) *TimesheetExtraction {
	s, err := readSheet(content, timesheetColumns, requiredTimesheetColumns)
	if err != nil {
		return &TimesheetExtraction{Success: false, Error: err.Error(), Validation: newStructuralValidation()}
	}

	validation := newStructuralValidation()
	data := &TimesheetData{
		Entries:    []TimesheetEntry{},
		TotalHours: decimal.Zero,
		Employees:  []string{},
		Projects:   []string{},
	}
	seenEmployees := make(map[string]bool)
	seenProjects := make(map[string]bool)

	for _, row := range s.rows {
		entry, issue := parseTimesheetRow(s, row)
		if issue != "" {
			validation.addWarning("Row %d: %s", row.number, issue)
			continue
		}

		data.Entries = append(data.Entries, entry)
		data.TotalHours = data.TotalHours.Add(entry.Hours)

		if !seenEmployees[entry.Employee] {
			seenEmployees[entry.Employee] = true
			data.Employees = append(data.Employees, entry.Employee)
		}
		if !seenProjects[entry.Project] {
			seenProjects[entry.Project] = true
			data.Projects = append(data.Projects, entry.Project)
		}

		d := entry.Date
		if data.DateRange.Start == nil || d.Before(*data.DateRange.Start) {
			start := d
			data.DateRange.Start = &start
		}
		if data.DateRange.End == nil || d.After(*data.DateRange.End) {
			end := d
			data.DateRange.End = &end
		}
	}

	data.TotalEntries = len(data.Entries)
	if data.TotalEntries == 0 {
		validation.Errors = append(validation.Errors, noTimesheetEntriesError)
	}

	return &TimesheetExtraction{Success: true, Data: data, Validation: validation}
}

// parseTimesheetRow returns the first problem found on the row, if any.
func parseTimesheetRow(s *sheet, row sheetRow) (TimesheetEntry, string) {
	employee := parseText(row.cell(s.column("employee")), "employee")
	if !employee.ok {
		return TimesheetEntry{}, employee.issue
	}

	date := parseDate(row.cell(s.column("date")))
	if !date.ok {
		return TimesheetEntry{}, date.issue
	}

	project := parseText(row.cell(s.column("project")), "project")
	if !project.ok {
		return TimesheetEntry{}, project.issue
	}

	hours := parseAmount(row.cell(s.column("hours")), "hours")
	if !hours.ok {
		return TimesheetEntry{}, hours.issue
	}
	if hours.value.IsNegative() {
		return TimesheetEntry{}, "hours cannot be negative"
	}

	return TimesheetEntry{
		Employee: employee.value,
		Date:     date.value,
		Project:  project.value,
		Hours:    hours.value,
	}, ""
}
