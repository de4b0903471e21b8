package service

import (
	"bytes"
	"fmt"
	"os"

	"github.com/lemon630/order-meal/order-svc/internal/domain"

	"github.com/phpdave11/gofpdf"
)

const receiptFontFamily = "ticket"

// ReceiptPrinter lays out kitchen tickets. Dish names are written with the
// configured TrueType font; without one they fall back to the core Latin font
// and any name it cannot encode is printed as its dish number.
type ReceiptPrinter struct {
	font     []byte
	Compress bool
}

// NewReceiptPrinter loads the ticket font from fontPath. An empty path selects
// the core font.
func NewReceiptPrinter(fontPath string) (*ReceiptPrinter, error) {
	p := &ReceiptPrinter{Compress: true}
	if fontPath == "" {
		return p, nil
	}
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read receipt font: %w", err)
	}
	p.font = font
	return p, nil
}

func (p *ReceiptPrinter) HasFont() bool {
	return len(p.font) > 0
}

// Render lays out a kitchen ticket for one order as a PDF.
func (p *ReceiptPrinter) Render(order *domain.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetCompression(p.Compress)

	family := "Arial"
	name := coreName(pdf.UnicodeTranslatorFromDescriptor(""))
	if p.HasFont() {
		family = receiptFontFamily
		pdf.AddUTF8FontFromBytes(family, "", p.font)
		pdf.AddUTF8FontFromBytes(family, "B", p.font)
		name = func(line domain.OrderLine) string { return line.Name }
	}
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Order #%d", order.ID))
	pdf.Ln(10)

	pdf.SetFont(family, "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Table %d    %s    %s", order.Table, order.CreatedAt.Format("2006-01-02 15:04"), order.Status))
	pdf.Ln(12)

	pdf.SetFont(family, "B", 11)
	pdf.CellFormat(70, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(20, 8, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(20, 8, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont(family, "", 11)
	for _, line := range order.Items {
		pdf.CellFormat(70, 8, name(line), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", line.Qty), "", 0, "R", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%.2f", line.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%.2f", line.Subtotal), "", 1, "R", false, 0, "")
	}

	pdf.SetFont(family, "B", 12)
	pdf.CellFormat(110, 10, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(20, 10, fmt.Sprintf("%.2f", order.Total), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// coreName encodes names for the cp1252 core font. The translator turns every
// rune outside the code page into '.', so such names print as the dish number.
func coreName(tr func(string) string) func(domain.OrderLine) string {
	return func(line domain.OrderLine) string {
		for _, r := range line.Name {
			if r >= 0x100 {
				return fmt.Sprintf("Dish #%d", line.DishID)
			}
		}
		return tr(line.Name)
	}
}
