package domain

import "errors"

var (
	ErrEmptyOrder           = errors.New("order must contain at least one line")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrUserRequired         = errors.New("user id required")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrInvalidStock         = errors.New("invalid stock")
	ErrProductNameRequired  = errors.New("product name required")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrProductAlreadyExists = errors.New("product already exists")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrConflict             = errors.New("concurrent write conflict")
	ErrInvalidID            = errors.New("invalid id")
)
