package payslip

import (
	"bytes"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/jung-kurt/gofpdf"
)

// Render produces the payslip PDF for a paid payroll record.
func Render(record payroll.PayrollRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", record.EmployeeName))
	pdf.Ln(6)
	if record.Department != "" || record.Position != "" {
		pdf.Cell(0, 7, fmt.Sprintf("%s / %s", record.Department, record.Position))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s",
		record.Period.StartDate.Format("2006-01-02"),
		record.Period.EndDate.Format("2006-01-02")))
	pdf.Ln(6)
	if record.PaymentDate != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Paid on: %s", record.PaymentDate.Format("2006-01-02")))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	line(pdf, "Base Salary", record.BaseSalary, record.Currency)
	if record.Overtime > 0 {
		line(pdf, "Overtime", record.Overtime, record.Currency)
	}
	if record.Bonuses > 0 {
		line(pdf, "Bonuses", record.Bonuses, record.Currency)
	}
	for _, a := range record.Allowances {
		line(pdf, a.Name, a.Amount, record.Currency)
	}
	pdf.SetFont("Helvetica", "B", 11)
	line(pdf, "Gross Pay", record.GrossPay, record.Currency)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, d := range record.Deductions {
		line(pdf, d.Name, d.Amount, record.Currency)
	}
	pdf.SetFont("Helvetica", "B", 11)
	line(pdf, "Total Deductions", record.TotalDeductions, record.Currency)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	line(pdf, "Net Pay", record.NetPay, record.Currency)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func line(pdf *gofpdf.Fpdf, label string, amount money.Amount, currency string) {
	pdf.Cell(120, 7, label)
	pdf.CellFormat(50, 7, formatAmount(amount, currency), "", 0, "R", false, 0, "")
	pdf.Ln(7)
}

// formatAmount renders minor units as a decimal string, e.g. 123456 -> "1234.56".
func formatAmount(a money.Amount, currency string) string {
	sign := ""
	if a < 0 {
		sign = "-"
		a = -a
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, int64(a)/100, int64(a)%100, currency)
}
