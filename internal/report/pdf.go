package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/verdict-dev/verdict/internal/review"
)

// PDFWriter outputs a printable PDF document.
type PDFWriter struct{}

func (p *PDFWriter) Write(w io.Writer, result *review.ProjectResult, opts Options) error {
	if err := validate(result); err != nil {
		return err
	}
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.MultiCell(0, 9, "Code Review Report: "+result.ProjectName, "", "L", false)
	doc.Ln(2)

	high, medium, low := severityCounts(result)
	doc.SetFont("Helvetica", "", 11)
	doc.MultiCell(0, 6, fmt.Sprintf("Overall Score: %d/%d    Files: %d    Issues: %d (%d high, %d medium, %d low)",
		result.OverallScore, review.MaxScore, result.TotalFiles, result.TotalIssues, high, medium, low), "", "L", false)
	doc.Ln(2)
	doc.MultiCell(0, 6, result.OverallSummary, "", "L", false)
	doc.Ln(4)

	if len(result.CrossFileIssues) > 0 {
		p.heading(doc, "Cross-File Issues")
		for _, it := range sortedCopy(result.CrossFileIssues) {
			p.item(doc, it)
		}
		doc.Ln(2)
	}

	for _, fr := range result.Files {
		p.heading(doc, fr.Filename)
		doc.SetFont("Helvetica", "", 11)
		if fr.Failed {
			doc.SetFont("Helvetica", "I", 11)
			doc.MultiCell(0, 6, fr.Summary, "", "L", false)
			doc.Ln(2)
			continue
		}
		doc.MultiCell(0, 6, fmt.Sprintf("Score: %d/%d", fr.Score, review.MaxScore), "", "L", false)
		doc.MultiCell(0, 6, fr.Summary, "", "L", false)
		doc.Ln(1)
		for _, it := range sortedCopy(fr.Feedback) {
			p.item(doc, it)
		}
		if opts.IncludeCode {
			if src, ok := sourceFor(opts, fr.Filename); ok {
				doc.SetFont("Courier", "", 8)
				doc.MultiCell(0, 4, strings.TrimRight(src.Content, "\n"), "", "L", false)
				doc.Ln(2)
			}
		}
		doc.Ln(2)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("rendering PDF: %w", err)
	}
	return nil
}

func (p *PDFWriter) heading(doc *fpdf.Fpdf, text string) {
	doc.SetFont("Helvetica", "B", 13)
	doc.MultiCell(0, 7, text, "", "L", false)
	doc.Ln(1)
}

func (p *PDFWriter) item(doc *fpdf.Fpdf, it review.FeedbackItem) {
	doc.SetFont("Helvetica", "B", 10)
	label := strings.ToUpper(string(it.Severity))
	loc := ""
	if it.Line > 0 {
		loc = fmt.Sprintf(", line %d", it.Line)
	}
	doc.MultiCell(0, 5, fmt.Sprintf("[%s] %s%s", label, it.Category, loc), "", "L", false)
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5, it.Message, "", "L", false)
	if it.Suggestion != "" {
		doc.SetFont("Helvetica", "I", 10)
		doc.MultiCell(0, 5, "Suggestion: "+it.Suggestion, "", "L", false)
	}
	doc.Ln(1)
}
