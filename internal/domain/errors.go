package domain

import "errors"

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductUnavailable   = errors.New("product not available")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMultiFarmerCart      = errors.New("all products must be from the same farmer")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInvalidProduct       = errors.New("invalid product")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrForbidden            = errors.New("not authorized")
)
