package customer

import "errors"

var (
	ErrPhoneRequired = errors.New("phone is required")
	ErrInvalidPhone  = errors.New("invalid phone number")

	// ErrCustomerResolutionConflict means neither the insert nor the lookup
	// produced a row, e.g. the placeholder email is already taken.
	ErrCustomerResolutionConflict = errors.New("customer could not be resolved")
)
