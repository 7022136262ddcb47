package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Party struct {
	Nombre   string
	Rut      string
	Email    string
	Telefono string
	Empresa  string
}

type Line struct {
	Descripcion string
	Monto       float64
}

// QuoteDocument is everything printed on a quote.
type QuoteDocument struct {
	Emisor           string
	Folio            string
	Estado           string
	FechaEmision     time.Time
	FechaVencimiento time.Time
	FechaServicio    *time.Time
	Cliente          Party
	Origen           string
	Destino          string
	Carga            string
	PesoKg           float64
	DistanciaKm      float64
	DuracionHoras    float64
	Lineas           []Line
	Descuento        float64
	Subtotal         float64
	TasaIVA          float64
	IVA              float64
	Total            float64
	Moneda           string
	Decimales        int
	Observaciones    string
}

type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

func (g *Generator) Quote(doc QuoteDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Cotización "+doc.Folio), false)
	pdf.SetAuthor(tr(doc.Emisor), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(doc.Emisor))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr("Cotización N° "+doc.Folio))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, tr(fmt.Sprintf("Emitida: %s   Válida hasta: %s   Estado: %s",
		formatDate(doc.FechaEmision), formatDate(doc.FechaVencimiento), doc.Estado)))
	pdf.Ln(8)

	section(pdf, tr, "Cliente")
	row(pdf, tr, "Nombre", doc.Cliente.Nombre)
	row(pdf, tr, "Empresa", doc.Cliente.Empresa)
	row(pdf, tr, "RUT", doc.Cliente.Rut)
	row(pdf, tr, "Email", doc.Cliente.Email)
	row(pdf, tr, "Teléfono", doc.Cliente.Telefono)
	pdf.Ln(3)

	section(pdf, tr, "Servicio")
	row(pdf, tr, "Origen", doc.Origen)
	row(pdf, tr, "Destino", doc.Destino)
	row(pdf, tr, "Carga", doc.Carga)
	if doc.PesoKg > 0 {
		row(pdf, tr, "Peso", fmt.Sprintf("%.0f kg", doc.PesoKg))
	}
	if doc.FechaServicio != nil {
		row(pdf, tr, "Fecha servicio", formatDate(*doc.FechaServicio))
	}
	if doc.DistanciaKm > 0 {
		row(pdf, tr, "Distancia", fmt.Sprintf("%.1f km (%.1f h aprox.)", doc.DistanciaKm, doc.DuracionHoras))
	}
	pdf.Ln(3)

	section(pdf, tr, "Detalle de costos")
	pdf.SetFont("Helvetica", "", 10)
	for _, l := range doc.Lineas {
		if l.Monto == 0 {
			continue
		}
		pdf.CellFormat(140, 6, tr(trim(l.Descripcion, 70)), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, FormatMoney(l.Monto, doc.Moneda, doc.Decimales), "", 1, "R", false, 0, "")
	}
	if doc.Descuento > 0 {
		pdf.CellFormat(140, 6, "Descuento", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, "-"+FormatMoney(doc.Descuento, doc.Moneda, doc.Decimales), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	totalRow(pdf, "Subtotal", FormatMoney(doc.Subtotal, doc.Moneda, doc.Decimales))
	totalRow(pdf, fmt.Sprintf("IVA (%.0f%%)", doc.TasaIVA*100), FormatMoney(doc.IVA, doc.Moneda, doc.Decimales))
	pdf.SetFont("Helvetica", "B", 12)
	totalRow(pdf, "Total", FormatMoney(doc.Total, doc.Moneda, doc.Decimales))

	if doc.Observaciones != "" {
		pdf.Ln(4)
		section(pdf, tr, "Observaciones")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(doc.Observaciones), "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 4, tr("Generado: "+g.now().Format("02-01-2006 15:04")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, tr(title), "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func row(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(35, 6, tr(label+":"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(trim(value, 90)), "", 1, "L", false, 0, "")
}

func totalRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(140, 6, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, value, "", 1, "R", false, 0, "")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02-01-2006")
}

// FormatMoney renders amounts the Chilean way: "$1.234.567" or "$1.234,50".
func FormatMoney(amount float64, currency string, decimals int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%.*f", decimals, amount)
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String()
	if frac != "" {
		out += "," + frac
	}
	if currency != "" && currency != "CLP" {
		out += " " + currency
	}
	if neg {
		out = "-" + out
	}
	return out
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
