package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders printable pipeline documents (easy to fake in tests).
type Generator interface {
	GenerateQuotation(data QuotationData) (string, error)
	GenerateOrder(data OrderData) (string, error)
}

type DocumentGenerator struct {
	RootDir string // storage root, e.g. "./files"
}

type QuotationData struct {
	Number    string
	Customer  string
	Total     float64
	Status    string
	CreatedAt time.Time
	Filename  string // plain filename; generated when empty
}

type OrderData struct {
	Number        string
	Customer      string
	Total         float64
	Status        string
	PaymentStatus string
	CreatedAt     time.Time
	Filename      string
}

func NewDocumentGenerator(rootDir string) *DocumentGenerator {
	return &DocumentGenerator{RootDir: filepath.Clean(rootDir)}
}

func (g *DocumentGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("creating files dir: %w", err)
	}
	return filepath.Join(g.RootDir, filepath.Base(filename)), nil
}

func (g *DocumentGenerator) newDoc(title string) *gofpdf.Fpdf {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, false)
	doc.SetAuthor("Atlas CRM", false)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()
	return doc
}

func hr(doc *gofpdf.Fpdf) {
	doc.SetLineWidth(0.3)
	x := doc.GetX()
	y := doc.GetY()
	doc.Line(20, y, 190, y)
	doc.SetXY(x, y+2)
}

func kvLine(doc *gofpdf.Fpdf, key, value string) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(50, 6, key, "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (g *DocumentGenerator) GenerateQuotation(data QuotationData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("quotation_%s.pdf", data.Number)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	doc := g.newDoc("Sales Quotation " + data.Number)

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, "SALES QUOTATION", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 7, fmt.Sprintf("%s  —  %s", data.Number, data.CreatedAt.Format("02.01.2006")), "", 1, "C", false, 0, "")
	hr(doc)
	doc.Ln(3)

	kvLine(doc, "Customer", data.Customer)
	kvLine(doc, "Status", data.Status)
	kvLine(doc, "Estimated total", fmt.Sprintf("%.2f", data.Total))
	doc.Ln(2)
	hr(doc)

	doc.SetFont("Helvetica", "I", 10)
	doc.MultiCell(0, 5, "The total above is an estimate derived from the recorded product interest and the current catalog. Final pricing is set on the sales order.", "", "L", false)

	if err := doc.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *DocumentGenerator) GenerateOrder(data OrderData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("order_%s.pdf", data.Number)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	doc := g.newDoc("Sales Order " + data.Number)

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, "SALES ORDER", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 7, fmt.Sprintf("%s  —  %s", data.Number, data.CreatedAt.Format("02.01.2006")), "", 1, "C", false, 0, "")
	hr(doc)
	doc.Ln(3)

	kvLine(doc, "Customer", data.Customer)
	kvLine(doc, "Status", data.Status)
	kvLine(doc, "Payment", data.PaymentStatus)
	kvLine(doc, "Total", fmt.Sprintf("%.2f", data.Total))

	if err := doc.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}
