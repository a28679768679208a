package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"mf360/internal/models"
	"mf360/internal/services"
)

// AnalysisHandlers handles analysis runs, history and report downloads
type AnalysisHandlers struct {
	analysisSvc services.AnalysisService
	reportSvc   services.ReportService
	minioSvc    services.MinioService
}

// NewAnalysisHandlers creates a new analysis handlers instance. minioSvc may
// be nil; report archival is then skipped.
func NewAnalysisHandlers(analysisSvc services.AnalysisService, reportSvc services.ReportService, minioSvc services.MinioService) *AnalysisHandlers {
	return &AnalysisHandlers{
		analysisSvc: analysisSvc,
		reportSvc:   reportSvc,
		minioSvc:    minioSvc,
	}
}

// RunAnalysisRequest represents the analysis run payload
type RunAnalysisRequest struct {
	InvestorIDs  []string `json:"investor_ids"`
	AnalysisType string   `json:"analysis_type"`
	UseLiveAI    bool     `json:"use_live_ai"`
}

// RunAnalysis executes one analysis over the requested investor set.
func (h *AnalysisHandlers) RunAnalysis(c echo.Context) error {
	ctx := c.Request().Context()

	var req RunAnalysisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	ids := make([]uuid.UUID, 0, len(req.InvestorIDs))
	for _, raw := range req.InvestorIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			// Unresolvable ids simply don't match, same as unknown ones.
			continue
		}
		ids = append(ids, id)
	}

	result, err := h.analysisSvc.Run(ctx, ids, req.AnalysisType, req.UseLiveAI)
	if err != nil {
		if errors.Is(err, services.ErrNoInvestors) {
			return echo.NewHTTPError(http.StatusNotFound, "No investors found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to run analysis")
	}
	return c.JSON(http.StatusOK, result)
}

// History returns the most recent analyses, newest first, capped at 50.
func (h *AnalysisHandlers) History(c echo.Context) error {
	ctx := c.Request().Context()

	results, err := h.analysisSvc.History(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load analysis history")
	}
	if results == nil {
		results = []*models.AnalysisResult{}
	}
	return c.JSON(http.StatusOK, results)
}

// DownloadReportPDF renders a stored analysis as a PDF attachment.
func (h *AnalysisHandlers) DownloadReportPDF(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid analysis ID format")
	}

	result, err := h.analysisSvc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Analysis not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load analysis")
	}

	pdfBytes, err := h.reportSvc.AnalysisPDF(result)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render report")
	}

	h.archiveReport(c, result.ID, pdfBytes)

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=analysis_%s.pdf`, result.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

// archiveReport copies the rendered PDF to object storage. Best effort.
func (h *AnalysisHandlers) archiveReport(c echo.Context, id uuid.UUID, data []byte) {
	if h.minioSvc == nil {
		return
	}
	ctx := c.Request().Context()
	objectName := fmt.Sprintf("analysis_%s.pdf", id)
	if err := h.minioSvc.UploadObject(ctx, services.BucketReports, objectName, "application/pdf",
		bytes.NewReader(data), int64(len(data))); err != nil {
		log.Printf("Failed to archive report %s: %v", objectName, err)
	}
}
