package report

import (
	"bytes"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/repository/postgres/report"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const dayLayout = "2006-01-02"

type Controller struct {
	report   Report
	location *time.Location
}

func NewController(report Report, location *time.Location) *Controller {
	return &Controller{report: report, location: location}
}

func (uc Controller) today() string {
	return time.Now().In(uc.location).Format(dayLayout)
}

// DailyCount is the chef's headcount view: today's office count unless a
// ?date= is queried.
func (uc Controller) DailyCount(c *web.Context) error {
	day := uc.today()
	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok && date != nil {
		day = *date
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	count, err := uc.report.DailyOfficeCount(c.Ctx, day)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": report.DailyCountResponse{
			Date:        day,
			OfficeCount: count,
			Message:     fmt.Sprintf("%d employees will be in office", count),
		},
		"status": true,
	}, http.StatusOK)
}

// DailyCountPDF renders a printable kitchen slip for the day.
func (uc Controller) DailyCountPDF(c *web.Context) error {
	day := uc.today()
	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok && date != nil {
		day = *date
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	count, err := uc.report.DailyOfficeCount(c.Ctx, day)
	if err != nil {
		return c.RespondError(err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Daily Lunch Count")
	pdf.Ln(16)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", day))
	pdf.Ln(10)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Office attendance: %d employees", count))
	pdf.Ln(14)
	pdf.SetFont("Arial", "I", 10)
	pdf.Cell(0, 6, "Please prepare lunch accordingly.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "rendering pdf"), http.StatusInternalServerError))
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="lunch-count-%s.pdf"`, day))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	return nil
}

// Trend defaults to the trailing 7 days ending today.
func (uc Controller) Trend(c *web.Context) error {
	now := time.Now().In(uc.location)
	from := now.AddDate(0, 0, -6).Format(dayLayout)
	to := now.Format(dayLayout)

	if value, ok := c.GetQueryFunc(reflect.String, "from").(*string); ok && value != nil {
		from = *value
	}
	if value, ok := c.GetQueryFunc(reflect.String, "to").(*string); ok && value != nil {
		to = *value
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	points, err := uc.report.Trend(c.Ctx, from, to)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": points,
		},
		"status": true,
	}, http.StatusOK)
}

// AdminReports defaults to the trailing 30 days.
func (uc Controller) AdminReports(c *web.Context) error {
	from, to, err := uc.reportRange(c)
	if err != nil {
		return c.RespondError(err)
	}

	response, err := uc.report.AdminReport(c.Ctx, from, to)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// ExportReports writes the per-user summary as an XLSX workbook.
func (uc Controller) ExportReports(c *web.Context) error {
	from, to, err := uc.reportRange(c)
	if err != nil {
		return c.RespondError(err)
	}

	response, err := uc.report.AdminReport(c.Ctx, from, to)
	if err != nil {
		return c.RespondError(err)
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Full Name", "Email", "Total Days", "Office Days", "Home Days", "Leave Days"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	for i, row := range response.UserSummary {
		rowNum := i + 2
		fullName, email := "", ""
		if row.FullName != nil {
			fullName = *row.FullName
		}
		if row.Email != nil {
			email = *row.Email
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), fullName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), email)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), row.TotalDays)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), row.OfficeDays)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), row.HomeDays)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), row.LeaveDays)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "writing workbook"), http.StatusInternalServerError))
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-report-%s-%s.xlsx"`, from, to))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	return nil
}

func (uc Controller) reportRange(c *web.Context) (string, string, error) {
	now := time.Now().In(uc.location)
	from := now.AddDate(0, 0, -30).Format(dayLayout)
	to := now.Format(dayLayout)

	if value, ok := c.GetQueryFunc(reflect.String, "start_date").(*string); ok && value != nil {
		from = *value
	}
	if value, ok := c.GetQueryFunc(reflect.String, "end_date").(*string); ok && value != nil {
		to = *value
	}
	if err := c.ValidQuery(); err != nil {
		return "", "", err
	}

	return from, to, nil
}
