package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
)

// DefaultTitle is the page header of the PDF report
const DefaultTitle = "Relatório de Rating de CCI"

type options struct {
	title       string
	generatedAt time.Time
}

// Option configures PDF rendering
type Option func(*options)

// WithTitle overrides the page header
func WithTitle(title string) Option {
	return func(o *options) {
		if title != "" {
			o.title = title
		}
	}
}

// WithGeneratedAt pins the PDF creation date, mostly for reproducible output
func WithGeneratedAt(t time.Time) Option {
	return func(o *options) {
		o.generatedAt = t
	}
}

// PDF renders the rating report of op as an A4 PDF document
func PDF(op *model.Operation, opts ...Option) ([]byte, error) {
	if op == nil {
		return nil, goerr.New("operation is required")
	}

	cfg := options{title: DefaultTitle, generatedAt: time.Now()}
	for _, opt := range opts {
		opt(&cfg)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(cfg.generatedAt)
	pdf.SetTitle(cfg.title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 10, tr(cfg.title), "", 0, "C", false, 0, "")
		pdf.Ln(20)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	w := &pdfWriter{pdf: pdf, tr: tr}

	w.chapterTitle("1. Dados Cadastrais da Operação")
	w.registrationTable(op)

	w.chapterTitle("2. Scorecard e Rating Final")
	card := NewScorecard(op)
	w.scorecardTable(card)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Score Médio Ponderado: %.2f", card.NotaMedia)), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Rating Final Atribuído: %s", card.Rating)), "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.Write(5, tr("Justificativa: "+justification(op)))
	pdf.Ln(10)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, goerr.Wrap(err, "failed to render PDF report", goerr.V(model.OperationIDKey, op.ID))
	}
	return buf.Bytes(), nil
}

func justification(op *model.Operation) string {
	if op.Analysis != nil && op.Analysis.Justification != "" {
		return op.Analysis.Justification
	}
	return op.Justification
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *pdfWriter) contentWidth() float64 {
	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	return pageW - left - right
}

func (w *pdfWriter) lineHeight() float64 {
	_, unitSize := w.pdf.GetFontSize()
	return unitSize * 1.5
}

func (w *pdfWriter) chapterTitle(title string) {
	w.pdf.SetFont("Arial", "B", 14)
	w.pdf.MultiCell(0, 10, w.tr(title), "", "L", false)
	w.pdf.Ln(4)
}

func (w *pdfWriter) registrationTable(op *model.Operation) {
	w.pdf.SetFont("Arial", "", 10)
	lh := w.lineHeight()
	colW := w.contentWidth() / 4

	fields := [][2]string{
		{"Nome da Operação:", op.Name},
		{"Código/Série:", op.Code},
		{"Volume Emitido:", FormatBRL(op.Volume)},
		{"Taxa:", FormatRate(op)},
		{"Data de Emissão:", FormatDate(op.IssueDate)},
		{"Vencimento:", FormatDate(op.MaturityDate)},
		{"Emissor:", op.Issuer},
		{"Sistema Amortização:", op.Amortization.String()},
	}

	for i, f := range fields {
		if i > 0 && i%2 == 0 {
			w.pdf.Ln(lh)
		}
		w.pdf.SetFont("Arial", "B", 10)
		w.pdf.CellFormat(colW, lh, w.tr(f[0]), "1", 0, "", false, 0, "")
		w.pdf.SetFont("Arial", "", 10)
		w.pdf.CellFormat(colW, lh, w.tr(f[1]), "1", 0, "", false, 0, "")
	}
	w.pdf.Ln(lh)
	w.pdf.Ln(10)
}

func (w *pdfWriter) scorecardTable(card Scorecard) {
	w.pdf.SetFont("Arial", "B", 10)
	lh := w.lineHeight()
	epw := w.contentWidth()
	widths := []float64{epw * 0.4, epw * 0.15, epw * 0.15, epw * 0.15, epw * 0.15}

	headers := []string{"Atributo", "Peso", "Nota (2-10)", "Rating", "Score Ponderado"}
	for i, h := range headers {
		w.pdf.CellFormat(widths[i], lh, w.tr(h), "1", 0, "C", false, 0, "")
	}
	w.pdf.Ln(lh)

	w.pdf.SetFont("Arial", "", 10)
	for _, row := range card.Rows {
		cells := []string{
			row.Label,
			fmt.Sprintf("%.0f%%", row.Weight*100),
			fmt.Sprintf("%d", row.Grade),
			row.Rating.String(),
			fmt.Sprintf("%.2f", row.Weighted),
		}
		for i, c := range cells {
			w.pdf.CellFormat(widths[i], lh, w.tr(c), "1", 0, "C", false, 0, "")
		}
		w.pdf.Ln(lh)
	}
	w.pdf.Ln(10)
}
