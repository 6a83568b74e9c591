package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"complaint-analytics/internal/dto"
	"complaint-analytics/internal/services"
	"complaint-analytics/pkg/constants"
	"complaint-analytics/pkg/types"
	"complaint-analytics/pkg/utils"
)

type AnalyticsController struct {
	analyticsService services.AnalyticsServiceInterface
	location         *time.Location
	logger           *zap.Logger
}

func NewAnalyticsController(analyticsService services.AnalyticsServiceInterface, location *time.Location, logger *zap.Logger) *AnalyticsController {
	if location == nil {
		location = time.UTC
	}
	return &AnalyticsController{
		analyticsService: analyticsService,
		location:         location,
		logger:           logger,
	}
}

// Unified serves both /unified and /analytics.
func (ctrl *AnalyticsController) Unified(c echo.Context) error {
	query, err := ctrl.bindQuery(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	report, err := ctrl.analyticsService.GetUnified(c.Request().Context(), query.ToFilter(ctrl.location))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, report, "Analytics report built", http.StatusOK)
}

func (ctrl *AnalyticsController) Heatmap(c echo.Context) error {
	query, err := ctrl.bindQuery(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	heatmap, err := ctrl.analyticsService.GetHeatmap(c.Request().Context(), query.ToFilter(ctrl.location))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, heatmap, "Heatmap built", http.StatusOK)
}

func (ctrl *AnalyticsController) Export(c echo.Context) error {
	query, err := ctrl.bindQuery(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	filter := query.ToFilter(ctrl.location)
	format := query.ExportFormat()
	ctrl.logger.Debug("export requested", zap.Any("filter", filter), zap.String("format", format))

	report, err := ctrl.analyticsService.GetExport(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if format == constants.ExportFormatXLSX {
		return ctrl.respondWithXLSX(c, report)
	}
	return utils.SuccessResponse(c, report, "Export prepared", http.StatusOK)
}

func (ctrl *AnalyticsController) bindQuery(c echo.Context) (dto.ReportQueryDTO, error) {
	var query dto.ReportQueryDTO
	if err := c.Bind(&query); err != nil {
		return query, err
	}
	if err := c.Validate(&query); err != nil {
		return query, err
	}
	return query, nil
}

var exportHeaders = []string{
	"Complaint ID", "Type", "Status", "Priority", "Ward", "Area", "Submitted", "Closed",
	"Deadline", "Resolution (days)", "SLA met", "Assigned to", "Rating", "Contact phone",
}

const (
	exportSheet   = "Complaints"
	summarySheet  = "Summary"
	exportHeadRow = 4
)

func exportCells(row types.ExportRow) []interface{} {
	cells := []interface{}{
		row.DisplayID, row.TypeName, row.Status, row.Priority, row.WardName, row.Area,
		row.SubmittedOn, row.ClosedOn, row.Deadline, "", "", "", "", row.ContactPhone,
	}
	if row.ResolutionDays != nil {
		cells[9] = *row.ResolutionDays
	}
	if row.SLAMet != nil {
		cells[10] = "no"
		if *row.SLAMet {
			cells[10] = "yes"
		}
	}
	if row.AssignedToID != nil {
		cells[11] = *row.AssignedToID
	}
	if row.Rating != nil {
		cells[12] = *row.Rating
	}
	return cells
}

// buildWorkbook lays out the branding header, one row per complaint and a summary sheet.
func buildWorkbook(report *types.ExportReport, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	title := report.Branding.AppName
	if title == "" {
		title = "Complaint report"
	}
	window := report.Summary.Window
	f.SetCellValue(exportSheet, "A1", title)
	f.SetCellValue(exportSheet, "A2", fmt.Sprintf("Period %s to %s, generated %s",
		window.From, window.To, report.GeneratedAt.In(loc).Format("2006-01-02 15:04")))
	if report.Branding.LogoURL != "" {
		f.SetCellValue(exportSheet, "A3", report.Branding.LogoURL)
	}

	headCell, _ := excelize.CoordinatesToCellName(1, exportHeadRow)
	if err := f.SetSheetRow(exportSheet, headCell, &exportHeaders); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHead, _ := excelize.CoordinatesToCellName(len(exportHeaders), exportHeadRow)
	f.SetCellStyle(exportSheet, "A1", "A1", bold)
	f.SetCellStyle(exportSheet, headCell, lastHead, bold)

	for i, row := range report.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, exportHeadRow+1+i)
		cells := exportCells(row)
		if err := f.SetSheetRow(exportSheet, cell, &cells); err != nil {
			return nil, err
		}
	}
	f.SetColWidth(exportSheet, "A", "A", 16)
	f.SetColWidth(exportSheet, "B", "B", 24)
	f.SetColWidth(exportSheet, "E", "F", 20)
	f.SetColWidth(exportSheet, "G", "I", 18)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	s := report.Summary.Summary
	summary := [][]interface{}{
		{"Total", s.Total},
		{"Resolved", s.Resolved},
		{"Pending", s.Pending},
		{"Overdue", s.Overdue},
		{"Reopened", s.Reopened},
		{"Critical", s.Critical},
		{"Closed in period", s.Closed},
		{"SLA compliance (%)", report.Summary.SLACompliance},
		{"Avg resolution (days)", report.Summary.AvgResolutionDays},
	}
	for i, line := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &line); err != nil {
			return nil, err
		}
	}
	f.SetColWidth(summarySheet, "A", "A", 24)
	return f, nil
}

func (ctrl *AnalyticsController) respondWithXLSX(c echo.Context, report *types.ExportReport) error {
	f, err := buildWorkbook(report, ctrl.location)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	defer f.Close()

	fileName := fmt.Sprintf("complaints_%s.xlsx", report.GeneratedAt.In(ctrl.location).Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	c.Response().Header().Set("X-Export-Id", report.ExportID)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}

