package pipeline

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrContactNotFound  = errors.New("contact not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrUpstreamStatus   = errors.New("unexpected upstream status")
)
