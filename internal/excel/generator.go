package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jdevries/timeflow/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(sheet model.Timesheet) ([]byte, error) {
	file := excelize.NewFile()

	sheetName := "Timesheet"
	file.SetSheetName("Sheet1", sheetName)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheetName, cell, value)
	}

	set("A1", "Employee")
	set("B1", sheet.Employee.Name)
	set("A2", "Email")
	set("B2", sheet.Employee.Email)
	set("A3", "Period start")
	set("B3", formatDate(sheet.PeriodStart))
	set("A4", "Period end")
	set("B4", formatDate(sheet.PeriodEnd))
	set("A5", "Total hours")
	set("B5", sheet.TotalHours().InexactFloat64())

	tableRow := 7
	headers := []string{
		"Date",
		"Company",
		"Project",
		"Service",
		"Start",
		"End",
		"Hours",
		"Comment",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, entry := range sheet.Entries {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), formatDate(entry.Date))
		set(fmt.Sprintf("B%d", row), entry.CompanyName)
		set(fmt.Sprintf("C%d", row), entry.ProjectName)
		set(fmt.Sprintf("D%d", row), formatString(entry.ServiceName))
		set(fmt.Sprintf("E%d", row), formatTime(entry.StartTime))
		set(fmt.Sprintf("F%d", row), formatTime(entry.EndTime))
		set(fmt.Sprintf("G%d", row), entry.HoursWorked.InexactFloat64())
		set(fmt.Sprintf("H%d", row), formatString(entry.Comment))
	}

	_ = file.SetColWidth(sheetName, "A", "A", 12)
	_ = file.SetColWidth(sheetName, "B", "C", 28)
	_ = file.SetColWidth(sheetName, "D", "D", 22)
	_ = file.SetColWidth(sheetName, "E", "F", 10)
	_ = file.SetColWidth(sheetName, "G", "G", 10)
	_ = file.SetColWidth(sheetName, "H", "H", 40)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTime(value *model.TimeOfDay) string {
	if value == nil {
		return ""
	}
	return value.String()
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
