package payroll

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Slip is the content of a printable salary slip.
type Slip struct {
	NationalID     string
	Name           string
	Category       int
	SeniorityYears float64
	Salary         float64
	IssuedAt       time.Time
}

// WriteSlipPDF renders slip as a one-page A4 PDF. The base and seniority
// lines are derived from the schedule, so an out-of-range category fails.
func WriteSlipPDF(w io.Writer, slip Slip) error {
	base, err := BaseSalary(slip.Category)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Salary slip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", slip.Name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("National ID: %s", slip.NationalID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Issued: %s", slip.IssuedAt.Format("2006-01-02")))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Category %d base: %.2f", slip.Category, base))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Seniority (%.1f years): %.2f", slip.SeniorityYears, SeniorityBonus*slip.SeniorityYears))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Yearly salary: %.2f", slip.Salary))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render salary slip: %w", err)
	}
	return nil
}
