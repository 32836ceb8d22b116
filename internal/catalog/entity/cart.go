package entity

type CartItem struct {
	PackageID string
	Name      string
	Qty       int
	Subtotal  int64
}

// Cart is the server-side cart summary returned after every change.
type Cart struct {
	Items    []CartItem
	TotalQty int
	Total    int64
}
