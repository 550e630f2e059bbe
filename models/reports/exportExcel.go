package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteExcel writes the snapshot as a single-sheet workbook, same rows and
// order as the CSV export.
func (e *ComplianceExport) WriteExcel(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for col, header := range complianceCSVHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, header)
	}

	for i, r := range e.Rows {
		row := i + 2
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), r.AssetName)
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), r.DepartmentName)
		f.SetCellValue(sheet, "C"+fmt.Sprint(row), r.MissedMaintenance)
		f.SetCellValue(sheet, "D"+fmt.Sprint(row), r.OverdueCalibration)
		f.SetCellValue(sheet, "E"+fmt.Sprint(row), r.RecallFlag)
		f.SetCellValue(sheet, "F"+fmt.Sprint(row), r.RiskScore)
	}

	return f.Write(w)
}
