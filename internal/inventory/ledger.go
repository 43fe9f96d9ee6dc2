package inventory

import "context"

// Reservation: hasil decrement stok yang berhasil, termasuk snapshot harga
// dan farmer pada saat itu. Dipakai order builder untuk menyusun line item.
type Reservation struct {
	ProductID   string
	ProductName string
	FarmerID    string
	Qty         int
	PriceCents  int
}

// Ledger adalah satu-satunya pintu baca/ubah available quantity.
//
// Reserve harus atomik: cek stok + decrement dalam satu langkah di storage
// (conditional update), bukan read lalu write terpisah — dua order paralel
// terhadap produk yang sama tidak boleh bikin stok minus.
type Ledger interface {
	// Reserve gagal dengan domain.ErrProductNotFound, ErrProductUnavailable,
	// atau ErrInsufficientStock.
	Reserve(ctx context.Context, productID string, qty int) (Reservation, error)

	// Release mengembalikan stok (kompensasi saat cancel / rollback create).
	Release(ctx context.Context, productID string, qty int) error
}
