package entity

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Package is a farm produce bundle offered in the storefront.
type Package struct {
	ID          string
	Name        string
	Description string
	Price       int64 // rupiah
	Unit        string
	Stock       int
	Active      bool
}

var rupiah = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount the way the storefront prices are shown,
// e.g. "Rp 125.000".
func FormatRupiah(amount int64) string {
	return rupiah.Sprintf("Rp %d", amount)
}
