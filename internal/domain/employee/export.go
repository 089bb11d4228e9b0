package employee

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Employees"

var exportColumns = []struct {
	header string
	width  float64
}{
	{"National ID", 14},
	{"Name", 32},
	{"Sex", 10},
	{"Category", 10},
	{"Seniority years", 16},
	{"Salary", 14},
}

// WriteWorkbook writes employees as a single-sheet xlsx workbook to w.
// Employees without a payroll record get an empty salary cell.
func WriteWorkbook(w io.Writer, employees []Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, col.header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(exportSheet, name, name, col.width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, emp := range employees {
		row := []any{emp.NationalID, emp.Name, emp.SexLabel(), emp.Category, emp.SeniorityYears, nil}
		if emp.Salary != nil {
			row[5] = *emp.Salary
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
