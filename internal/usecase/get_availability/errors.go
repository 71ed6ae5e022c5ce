package get_availability

import "errors"

var (
	// ErrInvalidInput возвращается при пустом providerId или некорректной дате
	ErrInvalidInput = errors.New("get_availability: invalid input data")
)
