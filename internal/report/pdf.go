package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/bill-analyzer/internal/models"

	"github.com/phpdave11/gofpdf"
)

const (
	pageWidth   = 182.0
	rowHeight   = 7.0
	pageBreakAt = 270.0
	maxCellText = 40
)

// WritePDF renders a report as a single bordered table.
func (g *Generator) WritePDF(w io.Writer, kind Kind, l models.Ledger) error {
	table, err := g.Table(kind, l)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title(kind), false)
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title(kind))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, subtitle(l))
	pdf.Ln(10)
	pdf.SetTextColor(20, 20, 20)

	if len(table) == 0 {
		return pdf.Output(w)
	}
	widths := columnWidths(len(table[0]))
	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(245, 245, 245)
		for i, h := range table[0] {
			pdf.CellFormat(widths[i], rowHeight, tr(h), "1", ln(i, len(widths)), "C", true, 0, "")
		}
		pdf.SetFont("Helvetica", "", 9)
	}

	header()
	if len(table) == 1 {
		pdf.CellFormat(0, rowHeight, "No transactions", "1", 1, "C", false, 0, "")
	}
	for _, row := range table[1:] {
		if pdf.GetY() > pageBreakAt {
			pdf.AddPage()
			header()
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], rowHeight, tr(trimTo(cell, maxCellText)), "1", ln(i, len(widths)), "L", false, 0, "")
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf build failed: %w", err)
	}
	return pdf.Output(w)
}

func title(kind Kind) string {
	return fmt.Sprintf("%s%s report", strings.ToUpper(string(kind[:1])), kind[1:])
}

func subtitle(l models.Ledger) string {
	first, last, ok := l.DateRange()
	if !ok {
		return "Empty ledger"
	}
	s := fmt.Sprintf("%d transactions, %s to %s", l.Len(), first.Format(time.DateOnly), last.Format(time.DateOnly))
	if l.Provenance().Synthetic {
		s += " (sample data)"
	}
	return s
}

func columnWidths(n int) []float64 {
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = pageWidth / float64(n)
	}
	return widths
}

// ln moves to the next line after the last column.
func ln(i, n int) int {
	if i == n-1 {
		return 1
	}
	return 0
}

func trimTo(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
