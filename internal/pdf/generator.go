package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/jdevries/timeflow/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

func (g *Generator) Generate(doc model.ProjectSummaryDocument) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Project services summary", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, doc.Project.ProjectName, "", 1, "C", false, 0, "")
	if doc.Project.Description != nil && strings.TrimSpace(*doc.Project.Description) != "" {
		pdf.CellFormat(0, 6, *doc.Project.Description, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Services", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)

	headers := []string{"Service", "Type", "Budget hours", "Spent hours", "Budget cost", "Spent cost"}
	colWidths := []float64{90, 25, 35, 35, 40, 40}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, usage := range doc.Summary.Services {
		row := []string{
			usage.Name,
			string(usage.PriceType),
			formatAmount(usage.BudgetHours),
			formatAmount(usage.SpentHours),
			formatAmount(usage.BudgetCost),
			formatAmount(usage.SpentCost),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	totals := []string{
		"Total",
		"",
		formatAmount(doc.Summary.Totals.HoursBudget),
		formatAmount(doc.Summary.Totals.HoursSpent),
		formatAmount(doc.Summary.Totals.CostBudget),
		formatAmount(doc.Summary.Totals.CostSpent),
	}
	drawTableRow(pdf, g.fontName, totals, colWidths, true)

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "", 11)
	remaining := "unlimited"
	if !doc.Summary.RemainingHours.Unlimited() {
		remaining = formatAmount(doc.Summary.RemainingHours.Hours())
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Remaining allocatable hours: %s", remaining), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}
