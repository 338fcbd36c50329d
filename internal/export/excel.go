// Package export renders lead analyses as spreadsheets and CRM records.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/revenueradar/radar/internal/model"
)

// SheetName is the worksheet written by WriteExcel.
const SheetName = "Leads Analysis"

// ExcelContentType is the MIME type of an .xlsx workbook.
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelColumns lists the header row in output order.
var ExcelColumns = []string{
	"Company Name",
	"Final Score",
	"Tier",
	"Rule-Based Score",
	"AI Adjustment",
	"Industry",
	"Country",
	"Employee Count",
	"Contact Name",
	"Contact Email",
	"Job Title",
	"Budget Range",
	"Timeline",
	"Reason",
	"Actions",
}

// Filename returns the attachment name for an export created at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("revenueradar_export_%s.xlsx", t.Format("20060102_150405"))
}

// WriteExcel writes analyses as a single-sheet workbook to w.
func WriteExcel(w io.Writer, analyses []model.LeadAnalysis) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return &model.ExportError{Target: "excel", Err: eris.Wrap(err, "export: add sheet")}
	}

	header := sheet.AddRow()
	for _, col := range ExcelColumns {
		header.AddCell().SetString(col)
	}

	for _, a := range analyses {
		row := sheet.AddRow()
		row.AddCell().SetString(a.CustomerName)
		row.AddCell().SetInt(a.Score)
		row.AddCell().SetString(string(a.Tier))
		row.AddCell().SetFloat(a.RuleScore)
		row.AddCell().SetFloat(a.AIAdjustment)
		row.AddCell().SetString(a.Lead.Industry)
		row.AddCell().SetString(a.Lead.Country)
		row.AddCell().SetInt(a.Lead.EmployeeCount)
		row.AddCell().SetString(a.Lead.ContactName)
		row.AddCell().SetString(a.Lead.ContactEmail)
		row.AddCell().SetString(a.Lead.JobTitle)
		row.AddCell().SetString(string(a.Lead.BudgetRange))
		row.AddCell().SetString(string(a.Lead.PurchaseTimeline))
		row.AddCell().SetString(a.Reasoning)
		row.AddCell().SetString(strings.Join(a.Actions, " | "))
	}

	if err := f.Write(w); err != nil {
		return &model.ExportError{Target: "excel", Err: eris.Wrap(err, "export: write workbook")}
	}
	return nil
}
