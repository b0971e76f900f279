package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-pdf/fpdf"
	"github.com/releaserite/dto"
	"github.com/releaserite/models"
	"go.uber.org/zap"
)

const (
	reportTimeLayout = "2006-01-02 15:04:05"
	placeholder      = "-"
)

// Report is a rendered release report ready for download
type Report struct {
	Filename string
	Content  []byte
}

// ReportService renders release reports as PDF documents
type ReportService struct {
	releases *ReleaseService
	logger   *zap.Logger
}

// NewReportService creates a new report service instance
func NewReportService(releases *ReleaseService, logger *zap.Logger) *ReportService {
	return &ReportService{releases: releases, logger: logger}
}

// ReleaseReport renders the report of a release
func (s *ReportService) ReleaseReport(ctx context.Context, id string) (Report, error) {
	release, err := s.releases.GetRelease(ctx, id)
	if err != nil {
		return Report{}, err
	}
	matrix, err := s.releases.StatusMatrix(ctx, id)
	if err != nil {
		return Report{}, err
	}

	var buf bytes.Buffer
	if err := RenderReleaseReport(&buf, release, matrix); err != nil {
		return Report{}, err
	}

	s.logger.Debug("release report rendered", zap.String("release_id", id), zap.Int("bytes", buf.Len()))
	return Report{Filename: ReportFilename(release), Content: buf.Bytes()}, nil
}

// ReportFilename names the report file after the release name and version
func ReportFilename(release models.Release) string {
	clean := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "\"", "")
	return fmt.Sprintf("release_report_%s_%s.pdf", clean.Replace(release.Name), clean.Replace(release.Version))
}

// RenderReleaseReport writes the PDF report: release information, role assignments,
// included services and the deployment status matrix
func RenderReleaseReport(w io.Writer, release models.Release, matrix dto.DeploymentMatrix) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Release Report: "+release.Name, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr("Release Report: "+release.Name), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	heading(pdf, "Release Information")
	table(pdf, tr, []float64{50, 130}, 10, [][]string{
		{"Field", "Value"},
		{"Release Name", release.Name},
		{"Version", release.Version},
		{"Created At", formatTime(&release.CreatedAt)},
		{"Planned Date", formatTime(release.PlannedReleaseDate)},
	})

	heading(pdf, "Role Assignments")
	table(pdf, tr, []float64{50, 130}, 10, [][]string{
		{"Role", "Assigned To"},
		{"Release Owner", userName(release.Owner)},
		{"Product Owner", userName(release.ProductOwner)},
		{"QA Engineer", userName(release.QA)},
		{"Security Analyst", userName(release.SecurityAnalyst)},
	})

	heading(pdf, "Included Services")
	if len(release.ServiceLinks) == 0 {
		paragraph(pdf, "No services included.")
	} else {
		rows := [][]string{{"Service Name", "Owner", "Version", "Pipeline Link"}}
		for _, link := range release.ServiceLinks {
			name, owner := placeholder, placeholder
			if link.Service != nil {
				name = link.Service.Name
				owner = orPlaceholder(link.Service.Owner)
			}
			rows = append(rows, []string{name, owner, orPlaceholder(link.Version), orPlaceholder(link.PipelineLink)})
		}
		table(pdf, tr, []float64{40, 35, 25, 80}, 8, rows)
	}

	heading(pdf, "Deployment Status")
	if len(matrix.Rows) == 0 || len(matrix.Environments) == 0 {
		paragraph(pdf, "No deployment data available.")
	} else {
		header := []string{"Service"}
		widths := []float64{40}
		envWidth := 140 / float64(len(matrix.Environments))
		for _, env := range matrix.Environments {
			header = append(header, env.Name)
			widths = append(widths, envWidth)
		}
		rows := [][]string{header}
		for _, row := range matrix.Rows {
			cells := []string{row.ServiceName}
			for _, cell := range row.Cells {
				cells = append(cells, cell.Label)
			}
			rows = append(rows, cells)
		}
		table(pdf, tr, widths, 7, rows)
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "render release report")
	}
	return nil
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
}

func paragraph(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, text, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

// table draws rows as a grid. The first row is the header.
func table(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, fontSize float64, rows [][]string) {
	for i, row := range rows {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", fontSize)
			pdf.SetFillColor(128, 128, 128)
			pdf.SetTextColor(245, 245, 245)
		} else {
			pdf.SetFont("Helvetica", "", fontSize)
			pdf.SetFillColor(245, 245, 220)
			pdf.SetTextColor(0, 0, 0)
		}
		for j, text := range row {
			pdf.CellFormat(widths[j], 7, tr(text), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return placeholder
	}
	return t.UTC().Format(reportTimeLayout)
}

func userName(u *models.User) string {
	if u == nil {
		return placeholder
	}
	return u.DisplayName()
}

func orPlaceholder(s *string) string {
	if s == nil || *s == "" {
		return placeholder
	}
	return *s
}
