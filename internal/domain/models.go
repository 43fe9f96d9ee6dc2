package domain

import "time"

// Product adalah unit stok milik satu farmer. Kolom Quantity hanya boleh
// diubah lewat inventory ledger, jangan langsung dari tempat lain.
type Product struct {
	ID          string    `json:"id"`
	FarmerID    string    `json:"farmer_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Unit        string    `json:"unit,omitempty"` // kg | g | piece | bunch | crate
	PriceCents  int       `json:"price_cents"`
	Quantity    int       `json:"quantity"`
	IsAvailable bool      `json:"is_available"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderItem: snapshot harga saat order dibuat, tidak di-query ulang.
type OrderItem struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name,omitempty"`
	Qty           int    `json:"qty"`
	PriceCents    int    `json:"price_cents"`
	SubtotalCents int    `json:"subtotal_cents"`
}

type DeliveryAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// DefaultCountry dipakai kalau alamat tidak menyebut negara.
const DefaultCountry = "Kenya"

type Order struct {
	ID                   string          `json:"id"`
	CustomerID           string          `json:"customer_id"`
	FarmerID             string          `json:"farmer_id"` // invariant: satu order = satu farmer
	Items                []OrderItem     `json:"items"`
	TotalCents           int             `json:"total_cents"`
	Status               Status          `json:"status"`
	PaymentStatus        PaymentStatus   `json:"payment_status"`
	PaymentMethod        string          `json:"payment_method"`
	DeliveryAddress      DeliveryAddress `json:"delivery_address"`
	DeliveryInstructions string          `json:"delivery_instructions,omitempty"`
	ExpectedDeliveryAt   *time.Time      `json:"expected_delivery_at,omitempty"`
	ActualDeliveryAt     *time.Time      `json:"actual_delivery_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// IsParticipant: customer atau farmer dari order ini.
func (o Order) IsParticipant(userID string) bool {
	return o.CustomerID == userID || o.FarmerID == userID
}
