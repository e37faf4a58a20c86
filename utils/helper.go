package utils

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func NewString(v string) *string {
	return &v
}

func NewInt(v int) *int {
	return &v
}

func NewDecimal(v decimal.Decimal) *decimal.Decimal {
	return &v
}

func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}

// Truncate shortens s for fixed-width report columns.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
