package service

import "errors"

var (
	ErrInvalidProductID       = errors.New("invalid product id")
	ErrInvalidUnit            = errors.New("invalid product unit")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrShippingAddressInvalid = errors.New("shipping address invalid")
	ErrPaymentMethodInvalid   = errors.New("payment method invalid")
	ErrOrderSubmitFailed      = errors.New("order submit failed")
	ErrOrderNotFound          = errors.New("order not found")
)
