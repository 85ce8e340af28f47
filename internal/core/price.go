// Package core provides the domain model and the aggregation layer
// for the sales tracker.
//
// This file contains price parsing from user input strings.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParsePrice converts a decimal string to a non-negative price.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns an error for invalid formats or negative values; zero is a
// valid price.
//
// Examples:
//
//	ParsePrice("12.34") -> 12.34, nil
//	ParsePrice("12,34") -> 12.34, nil
//	ParsePrice("0")     -> 0, nil
//	ParsePrice("-1")    -> 0, ErrNegativePrice
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidPrice
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativePrice
	}
	s = strings.TrimPrefix(s, "+")
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidPrice
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return 0, ErrInvalidPrice
			}
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// ParseQuantity converts a string to a positive integer quantity.
func ParseQuantity(s string) (int64, error) {
	s = strings.TrimSpace(s)
	q, err := strconv.ParseInt(s, 10, 64)
	if err != nil || q <= 0 {
		return 0, ErrInvalidQuantity
	}
	return q, nil
}
