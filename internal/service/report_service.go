package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/ports"
)

type TimesheetGenerator interface {
	Generate(sheet model.Timesheet) ([]byte, error)
}

type SummaryGenerator interface {
	Generate(doc model.ProjectSummaryDocument) ([]byte, error)
}

// ReportService produces downloadable exports: an employee timesheet workbook
// and a project services summary sheet.
type ReportService struct {
	catalog *ServiceService
	entries ports.TimeEntryStore
	excel   TimesheetGenerator
	pdf     SummaryGenerator
	log     zerolog.Logger
}

func NewReportService(catalog *ServiceService, entries ports.TimeEntryStore, excel TimesheetGenerator, pdf SummaryGenerator, log zerolog.Logger) *ReportService {
	return &ReportService{catalog: catalog, entries: entries, excel: excel, pdf: pdf, log: log}
}

type ExportResult struct {
	FileName string
	Content  []byte
}

type TimesheetInput struct {
	// EmployeeID selects another employee's sheet; the caller's own employee
	// record is used when absent.
	EmployeeID  *int64
	PeriodStart time.Time
	PeriodEnd   time.Time
}

func (s *ReportService) Timesheet(ctx context.Context, principal model.Principal, input TimesheetInput) (*ExportResult, error) {
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() {
		return nil, validationf("period", "period dates are required")
	}
	periodStart := dateOnly(input.PeriodStart)
	periodEnd := dateOnly(input.PeriodEnd)
	if periodStart.After(periodEnd) {
		return nil, validationf("period", "period_start must be before or equal to period_end")
	}

	var employee *model.Employee
	var err error
	if input.EmployeeID != nil {
		employee, err = s.entries.GetEmployee(ctx, *input.EmployeeID)
		if err != nil {
			return nil, err
		}
		if employee == nil {
			return nil, &NotFoundError{Entity: "employee", ID: *input.EmployeeID}
		}
	} else {
		employee, err = s.entries.GetOrCreateEmployee(ctx, principal.EmployeeName(), principal.EmployeeEmail(), principal.Subject)
		if err != nil {
			return nil, err
		}
	}

	rows, err := s.entries.List(ctx, model.TimeEntryFilter{
		EmployeeID: employee.ID,
		StartDate:  &periodStart,
		EndDate:    &periodEnd,
	})
	if err != nil {
		return nil, err
	}

	sheet := model.Timesheet{
		Employee:    *employee,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Entries:     rows,
	}
	content, err := s.excel.Generate(sheet)
	if err != nil {
		return nil, err
	}

	name := sanitizeFileName(employee.Name)
	if name == "" {
		name = fmt.Sprintf("employee-%d", employee.ID)
	}
	fileName := fmt.Sprintf("timesheet-%s-%s-%s.xlsx",
		name, periodStart.Format("20060102"), periodEnd.Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}

func (s *ReportService) ProjectSummaryPDF(ctx context.Context, projectID int64) (*ExportResult, error) {
	summary, err := s.catalog.ProjectSummary(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project, err := s.catalog.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, &NotFoundError{Entity: "project", ID: projectID}
	}

	content, err := s.pdf.Generate(model.ProjectSummaryDocument{
		Project: *project,
		Summary: *summary,
	})
	if err != nil {
		return nil, err
	}

	name := sanitizeFileName(project.ProjectName)
	if name == "" {
		name = fmt.Sprintf("project-%d", projectID)
	}
	return &ExportResult{
		FileName: fmt.Sprintf("services-summary-%s.pdf", name),
		Content:  content,
	}, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
