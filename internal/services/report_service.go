package services

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"mf360/internal/models"
)

// ReportService renders analysis results and the investor CSV template.
type ReportService interface {
	CSVTemplate() ([]byte, error)
	AnalysisPDF(result *models.AnalysisResult) ([]byte, error)
}

type reportService struct{}

func NewReportService() ReportService {
	return &reportService{}
}

// CSVTemplate produces the import template: the full header row plus one
// example record. Folio ids travel comma-joined in a single cell.
func (s *reportService) CSVTemplate() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvColumns); err != nil {
		return nil, err
	}
	sample := []string{
		"ARN-123456", "Amit", "Sharma", "amit@example.com", "+919876543210",
		"1985-05-15", "Y", "ABCDE1234F", "123 MG Road", "Mumbai", "Maharashtra",
		"400001", models.JoinFolioIDs([]string{"FOL12345", "FOL67890"}), "Medium",
		"500000", "email", "VIP Client",
	}
	if err := writer.Write(sample); err != nil {
		return nil, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AnalysisPDF lays out a single-flow report: title, type, date, executive
// summary, action items, and a risk alerts section when alerts exist.
func (s *reportService) AnalysisPDF(result *models.AnalysisResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	// Core fonts are CP1252; translate so the rupee sign degrades gracefully.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(26, 54, 93)
	pdf.Cell(0, 12, "AI Analysis Report")
	pdf.Ln(16)

	pdf.SetTextColor(33, 37, 41)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Analysis Type: %s", result.AnalysisType))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Date: %s", result.CreatedAt.Format("02-Jan-2006 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Executive Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, tr(result.ExecutiveSummary), "", "L", false)
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Action Items")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	for _, item := range result.ActionItems {
		pdf.MultiCell(0, 6, tr("- "+item), "", "L", false)
	}

	if len(result.RiskAlerts) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Risk Alerts")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, alert := range result.RiskAlerts {
			pdf.MultiCell(0, 6, tr("! "+alert), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
