// Package extractors turns uploaded timesheet and rate-card spreadsheets into
// structured records. Row-level problems are reported as issues on the
// extraction; only sheet-shape problems fail it.
package extractors

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// StructuralValidation carries issues found while reading the sheet, before
// any business rule runs.
type StructuralValidation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func newStructuralValidation() StructuralValidation {
	return StructuralValidation{Errors: []string{}, Warnings: []string{}}
}

func (v *StructuralValidation) addError(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *StructuralValidation) addWarning(format string, args ...interface{}) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

// sheet is the header-mapped first worksheet of a workbook.
type sheet struct {
	columns map[string]int
	rows    []sheetRow
}

type sheetRow struct {
	number int // 1-based spreadsheet row number
	cells  []string
}

func (r sheetRow) cell(idx int) string {
	if idx < 0 || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

func (r sheetRow) isBlank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// columnAliases maps a canonical field to the header spellings accepted for it.
type columnAliases map[string][]string

// readSheet opens the first worksheet, locates the header row and maps the
// required and optional columns. Returned errors are user facing.
func readSheet(content []byte, aliases columnAliases, required []string) (*sheet, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("File is empty")
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("Unable to read spreadsheet: %v", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("Spreadsheet has no worksheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("Unable to read worksheet %q: %v", sheetName, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !(sheetRow{cells: row}).isBlank() {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, fmt.Errorf("Spreadsheet is empty")
	}

	columns := mapColumns(rows[headerIdx], aliases)
	var missing []string
	for _, field := range required {
		if _, ok := columns[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("Missing required columns: %s", strings.Join(missing, ", "))
	}

	s := &sheet{columns: columns}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := sheetRow{number: i + 1, cells: rows[i]}
		if row.isBlank() {
			continue
		}
		s.rows = append(s.rows, row)
	}
	if len(s.rows) == 0 {
		return nil, fmt.Errorf("Spreadsheet has no data rows")
	}

	return s, nil
}

func (s *sheet) column(field string) int {
	if idx, ok := s.columns[field]; ok {
		return idx
	}
	return -1
}

func (s *sheet) hasColumn(field string) bool {
	_, ok := s.columns[field]
	return ok
}

// mapColumns resolves each canonical field to the first header cell matching
// one of its aliases.
func mapColumns(header []string, aliases columnAliases) map[string]int {
	lookup := make(map[string]string)
	fields := make([]string, 0, len(aliases))
	for field := range aliases {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		for _, alias := range aliases[field] {
			lookup[normalizeHeader(alias)] = field
		}
	}

	columns := make(map[string]int)
	for idx, name := range header {
		field, ok := lookup[normalizeHeader(name)]
		if !ok {
			continue
		}
		if _, taken := columns[field]; !taken {
			columns[field] = idx
		}
	}
	return columns
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ", ".", " ", "(", " ", ")", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
