package booking

import (
	"errors"

	"github.com/levy1403/quanlychuoi-sub000/internal/domain/customer"
)

var (
	ErrInvalidID               = errors.New("invalid booking id")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrBranchRequired          = errors.New("branch is required")
	ErrServicesRequired        = errors.New("at least one service is required")
	ErrServiceNotFound         = errors.New("one or more services not found")
	ErrInvalidStatus           = errors.New("invalid booking status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrBookingNotCancelled     = errors.New("only cancelled bookings can be deleted")
	ErrInvalidEmployee         = errors.New("employee not found")
	ErrBranchNotFound          = errors.New("branch not found")

	ErrPhoneRequired              = customer.ErrPhoneRequired
	ErrInvalidPhone               = customer.ErrInvalidPhone
	ErrCustomerResolutionConflict = customer.ErrCustomerResolutionConflict
)
