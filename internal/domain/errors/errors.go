package errors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrEmptyCart           = errors.New("empty cart")
	ErrInvalidDiscountRate = errors.New("invalid discount rate")
	ErrInvalidQuantity     = errors.New("invalid item quantity")
	ErrUnknownStatus       = errors.New("unknown order status")
	ErrTerminalStatus      = errors.New("order is in terminal status")
	ErrInvalidAmounts      = errors.New("schedule amounts do not add up")
	ErrInvalidInstallment  = errors.New("invalid installment number")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
