package domain

import "errors"

var (
	MessageSuccessAddMedicine    = "Medicine '%s' added successfully with ID: %d"
	MessageSuccessUpdateStock    = "Stock updated successfully"
	MessageSuccessUpdateExpiry   = "Expiry date updated successfully"
	MessageSuccessDeleteMedicine = "Medicine deleted successfully"

	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrDataIntegrity = errors.New("data integrity error")
	ErrDuplicate     = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
)
