package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webdev1881/retail-ftp-2/internal/export"
	"github.com/webdev1881/retail-ftp-2/internal/feed"
	"github.com/webdev1881/retail-ftp-2/internal/model"
	"github.com/webdev1881/retail-ftp-2/internal/service"
	"github.com/webdev1881/retail-ftp-2/pkg/daterange"
	"github.com/webdev1881/retail-ftp-2/pkg/response"
)

// generateReportRequest is the wire form both the web page and API clients
// send. Dates for the second comparison period are flat fields, matching
// the page's form layout.
type generateReportRequest struct {
	ReportType string   `json:"report_type"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	StartDate2 string   `json:"start_date2,omitempty"`
	EndDate2   string   `json:"end_date2,omitempty"`
	Cities     []string `json:"cities,omitempty"`
	GroupBy    []string `json:"group_by,omitempty"`
}

type exportRequest struct {
	generateReportRequest
	Format string `json:"format"` // "csv" or "xlsx"
}

// validate rejects obviously broken periods before a feed connection is
// opened. An inverted range is treated as a client typo, not an empty
// report.
func (r generateReportRequest) validate() error {
	start, err := time.Parse(daterange.Layout, r.StartDate)
	if err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	end, err := time.Parse(daterange.Layout, r.EndDate)
	if err != nil {
		return fmt.Errorf("end_date: %w", err)
	}
	if end.Before(start) {
		return errors.New("start_date is after end_date")
	}
	return nil
}

func (r generateReportRequest) toModel() model.ReportRequest {
	kind := model.ReportKind(r.ReportType)
	if r.ReportType == "" {
		kind = model.KindSales
	}
	req := model.ReportRequest{
		Kind:    kind,
		Period:  model.Period{Start: r.StartDate, End: r.EndDate},
		Cities:  r.Cities,
		GroupBy: r.GroupBy,
	}
	if r.StartDate2 != "" || r.EndDate2 != "" {
		req.Period2 = &model.Period{Start: r.StartDate2, End: r.EndDate2}
	}
	return req
}

type ReportHandler struct {
	reportService service.ReportService
	reportsDir    string
	logger        *zap.Logger
}

func NewReportHandler(reportService service.ReportService, reportsDir string, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, reportsDir: reportsDir, logger: logger}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", h.IndexPage)
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.POST("/generate_report", h.GenerateReport)
		api.POST("/export", h.ExportReport)
		api.GET("/reports/:name", h.DownloadReport)
	}
}

// IndexPage serves the embedded single-page report UI.
func (h *ReportHandler) IndexPage(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, indexPage)
}

func (h *ReportHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"status": "ok"}))
}

// GenerateReport runs one report and returns its rows and summary.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.reportService.Generate(c.Request.Context(), req.toModel())
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ExportReport runs one report, renders it to a file in the reports
// directory and returns the download name.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	if req.Format != "csv" && req.Format != "xlsx" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "format must be csv or xlsx"))
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.reportService.Generate(c.Request.Context(), req.toModel())
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	name := export.FileName(result.Kind, req.Format)
	path := filepath.Join(h.reportsDir, name)
	if err := h.writeArtifact(path, req.Format, result); err != nil {
		h.logger.Error("report export failed", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"filename": name,
		"rows":     len(result.Rows),
	}))
}

func (h *ReportHandler) writeArtifact(path, format string, result model.ReportResult) error {
	if format == "xlsx" {
		f, err := export.WriteExcel(result)
		if err != nil {
			return err
		}
		return f.SaveAs(path)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return export.WriteCSV(out, result)
}

// DownloadReport serves a previously exported artifact by name.
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	// Base strips any path components a hostile name could smuggle in.
	name := filepath.Base(c.Param("name"))
	path := filepath.Join(h.reportsDir, name)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "report not found"))
		return
	}
	c.FileAttachment(path, name)
}

// statusFor maps pipeline failures onto HTTP statuses: upstream feed
// problems are gateway errors, everything else is a bad request (malformed
// period, unknown kind, unknown cities).
func statusFor(err error) int {
	if errors.Is(err, feed.ErrUnavailable) || errors.Is(err, feed.ErrMissingReference) {
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}
