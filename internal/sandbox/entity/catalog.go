package entity

import "errors"

// ErrOutOfStock is returned when a cart would hold more of a package than is
// in stock.
var ErrOutOfStock = errors.New("not enough stock")

type Package struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Unit        string
	Stock       int
	Active      bool
}

type CartItem struct {
	PackageID string
	Name      string
	Qty       int
	Subtotal  int64
}

type Cart struct {
	Items    []CartItem
	TotalQty int
	Total    int64
}

// SeedPackages is the catalog a fresh sandbox starts with.
func SeedPackages() []Package {
	return []Package{
		{ID: "pkg-sayur", Name: "Sayur Box", Description: "Weekly mixed greens", Price: 75000, Unit: "box", Stock: 40, Active: true},
		{ID: "pkg-buah", Name: "Buah Box", Description: "Seasonal fruit", Price: 90000, Unit: "box", Stock: 25, Active: true},
		{ID: "pkg-beras", Name: "Beras Organik 5kg", Description: "Pandan wangi rice", Price: 68000, Unit: "sack", Stock: 60, Active: true},
		{ID: "pkg-telur", Name: "Telur Kampung", Description: "Free-range eggs", Price: 30000, Unit: "tray", Stock: 15, Active: true},
		{ID: "pkg-madu", Name: "Madu Hutan", Description: "Wild forest honey", Price: 120000, Unit: "jar", Stock: 0, Active: false},
	}
}
