package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(table int) ([]byte, error)
}

// TableQRGenerator encodes the ordering link for one table, so diners who scan
// it start with that table preselected.
type TableQRGenerator struct {
	BaseURL string
}

func (g TableQRGenerator) Generate(table int) ([]byte, error) {
	return qrcode.Encode(g.Link(table), qrcode.Medium, 256)
}

func (g TableQRGenerator) Link(table int) string {
	return fmt.Sprintf("%s/?table=%d", g.BaseURL, table)
}
