package pdf

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/sangkips/fms-api/pkg/money"
	"github.com/shopspring/decimal"
)

// Renderer lays out documents as A4 PDFs
type Renderer struct {
	companyName string
}

// NewRenderer creates a renderer that prints companyName in the header
func NewRenderer(companyName string) *Renderer {
	return &Renderer{companyName: companyName}
}

func amount(d decimal.Decimal) string {
	return money.Round(d).StringFixed(money.Places)
}

// Render writes doc to w
func (r *Renderer) Render(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle(fmt.Sprintf("%s %s", doc.Title, doc.Number), false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(95, 10, tr(r.companyName), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 10, doc.Title, "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, tr("No: "+doc.Number), "", 1, "R", false, 0, "")
	pdf.CellFormat(190, 6, "Date: "+doc.Date.Format(dateLayout), "", 1, "R", false, 0, "")
	pdf.CellFormat(190, 6, "Status: "+doc.Status, "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Details", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, kv := range doc.Details {
		pdf.CellFormat(50, 7, kv[0], "LB", 0, "L", false, 0, "")
		pdf.CellFormat(140, 7, tr(kv[1]), "RB", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	if doc.HasTotals() {
		r.items(pdf, doc, tr)
	} else {
		pdf.SetFont("Arial", "B", 14)
		pdf.SetFillColor(200, 255, 200)
		pdf.CellFormat(190, 10, "Total Received: "+amount(doc.Total), "1", 1, "C", true, 0, "")
	}

	// Signatures
	pdf.Ln(15)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, tr("Issued by: "+doc.IssuedBy), "", 0, "L", false, 0, "")
	approved := doc.ApprovedBy
	if approved == "" {
		approved = "-"
	}
	pdf.CellFormat(95, 6, tr("Approved by: "+approved), "", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render %s %s: %w", doc.Title, doc.Number, err)
	}
	return nil
}

func (r *Renderer) items(pdf *gofpdf.Fpdf, doc Document, tr func(string) string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(95, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, l := range doc.Lines {
		desc := l.Description
		if runes := []rune(desc); len(runes) > 50 {
			desc = string(runes[:47]) + "..."
		}
		pdf.CellFormat(95, 6, tr(desc), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", l.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, amount(l.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, amount(l.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	vatLabel := fmt.Sprintf("VAT (%s%%)", money.VATRate.Shift(2).String())
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(155, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, amount(doc.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(155, 7, vatLabel, "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, amount(doc.Tax), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(155, 8, "Grand Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, amount(doc.Total), "T", 1, "R", false, 0, "")
}
