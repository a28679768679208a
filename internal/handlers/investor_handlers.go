package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"mf360/internal/models"
	"mf360/internal/services"
)

// InvestorHandlers handles investor roster HTTP requests
type InvestorHandlers struct {
	investorSvc services.InvestorService
	reportSvc   services.ReportService
	minioSvc    services.MinioService
}

// NewInvestorHandlers creates a new investor handlers instance. minioSvc may
// be nil; archival is then skipped.
func NewInvestorHandlers(investorSvc services.InvestorService, reportSvc services.ReportService, minioSvc services.MinioService) *InvestorHandlers {
	return &InvestorHandlers{
		investorSvc: investorSvc,
		reportSvc:   reportSvc,
		minioSvc:    minioSvc,
	}
}

// ListInvestorsRequest represents query parameters for listing investors
type ListInvestorsRequest struct {
	Search      string `query:"search"`
	KYCStatus   string `query:"kyc_status"`
	RiskProfile string `query:"risk_profile"`
	City        string `query:"city"`
}

// ListInvestors returns the filtered roster, capped at 1000 records.
func (h *InvestorHandlers) ListInvestors(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListInvestorsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	investors, err := h.investorSvc.List(ctx, &models.InvestorFilter{
		Search:      req.Search,
		KYCStatus:   req.KYCStatus,
		RiskProfile: req.RiskProfile,
		City:        req.City,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list investors")
	}
	if investors == nil {
		investors = []*models.Investor{}
	}
	return c.JSON(http.StatusOK, investors)
}

// GetInvestor returns one investor by id.
func (h *InvestorHandlers) GetInvestor(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid investor ID format")
	}

	investor, err := h.investorSvc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Investor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get investor")
	}
	return c.JSON(http.StatusOK, investor)
}

// CreateInvestor creates a roster record; the server assigns id and timestamps.
func (h *InvestorHandlers) CreateInvestor(c echo.Context) error {
	ctx := c.Request().Context()

	investor := &models.Investor{}
	if err := c.Bind(investor); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.investorSvc.Create(ctx, investor); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, investor)
}

// UpdateInvestor applies a partial update; unspecified fields stay untouched.
func (h *InvestorHandlers) UpdateInvestor(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid investor ID format")
	}

	update := &models.InvestorUpdate{}
	if err := c.Bind(update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	investor, err := h.investorSvc.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Investor not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, investor)
}

// DeleteInvestor removes a roster record.
func (h *InvestorHandlers) DeleteInvestor(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid investor ID format")
	}

	if err := h.investorSvc.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Investor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete investor")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Investor deleted successfully"})
}

// DownloadCSVTemplate serves the import template as an attachment.
func (h *InvestorHandlers) DownloadCSVTemplate(c echo.Context) error {
	template, err := h.reportSvc.CSVTemplate()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build CSV template")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=investor_template.csv`)
	return c.Blob(http.StatusOK, "text/csv", template)
}

// ImportCSV ingests a multipart CSV upload row by row. Row failures are
// reported individually and never abort the batch.
func (h *InvestorHandlers) ImportCSV(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "CSV file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to open uploaded file")
	}
	defer file.Close()

	var raw bytes.Buffer
	if _, err := raw.ReadFrom(file); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read uploaded file")
	}

	result, err := h.investorSvc.ImportCSV(ctx, bytes.NewReader(raw.Bytes()))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Error processing CSV: %v", err))
	}

	h.archiveUpload(c, fileHeader.Filename, raw.Bytes())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":        fmt.Sprintf("Successfully imported %d investors", result.ImportedCount),
		"imported_count": result.ImportedCount,
		"errors":         result.Errors,
	})
}

// archiveUpload copies the raw CSV to object storage for audit. Best effort.
func (h *InvestorHandlers) archiveUpload(c echo.Context, filename string, data []byte) {
	if h.minioSvc == nil {
		return
	}
	ctx := c.Request().Context()
	objectName := fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102T150405"), filename)
	if err := h.minioSvc.UploadObject(ctx, services.BucketCSVImports, objectName, "text/csv",
		bytes.NewReader(data), int64(len(data))); err != nil {
		log.Printf("Failed to archive CSV upload %s: %v", objectName, err)
	}
}
