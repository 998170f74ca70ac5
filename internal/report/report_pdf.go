// Package report renders task summaries as PDF.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/akyairhashvil/taskspill/internal/controller"
	"github.com/akyairhashvil/taskspill/internal/database"
	"github.com/go-pdf/fpdf"
)

// Write renders a summary of totals to w.
func Write(w io.Writer, totals []database.TaskTotals, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Taskspill report", false)
	pdf.SetCreationDate(generatedAt)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Focus Report: %s", generatedAt.Format("2006-01-02")))
	pdf.Ln(12)

	if len(totals) == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, "No tasks recorded.")
		pdf.Ln(8)
	}

	var totalSeconds, totalWork int
	for _, t := range totals {
		totalSeconds += t.ElapsedSeconds
		totalWork += t.Work

		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 9, pdf.UnicodeTranslatorFromDescriptor("")(t.Name))
		pdf.Ln(7)

		pdf.SetFont("Arial", "", 11)
		elapsed := controller.FormatElapsed(time.Duration(t.ElapsedSeconds) * time.Second)
		pdf.Cell(0, 7, fmt.Sprintf("    Time worked: %s", elapsed))
		pdf.Ln(6)
		pdf.Cell(0, 7, fmt.Sprintf("    Intervals: %d work, %d short break, %d long break",
			t.Work, t.ShortBreaks, t.LongBreaks))
		pdf.Ln(9)
	}

	// Summary
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Tasks: %d   Work intervals: %d   Total: %s",
		len(totals), totalWork, controller.FormatElapsed(time.Duration(totalSeconds)*time.Second)))
	pdf.Ln(10)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return pdf.Output(w)
}

// WriteFile renders the report to path and returns its absolute location.
func WriteFile(path string, totals []database.TaskTotals, generatedAt time.Time) (string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Write(f, totals, generatedAt); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return filepath.Abs(path)
}

// DefaultFileName names a report for the given day.
func DefaultFileName(day time.Time) string {
	return fmt.Sprintf("report_%s.pdf", day.Format("2006-01-02"))
}
