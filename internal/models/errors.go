package models

import "errors"

var (
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidBar       = errors.New("invalid bar (high < low)")
	ErrInvalidInput     = errors.New("invalid input: historical data is missing or empty")
	ErrLengthMismatch   = errors.New("series length mismatch")
)
