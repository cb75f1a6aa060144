package games

import (
	"fmt"
	"strings"
)

// Result is the outcome of one round
type Result int

const (
	Passed Result = iota
	Failed
)

// String returns the result name
func (r Result) String() string {
	switch r {
	case Passed:
		return "Passed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the result by name
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a result name, case-insensitively
func (r *Result) UnmarshalText(text []byte) error {
	switch {
	case strings.EqualFold(string(text), "Passed"):
		*r = Passed
	case strings.EqualFold(string(text), "Failed"):
		*r = Failed
	default:
		return fmt.Errorf("unknown round result %q", text)
	}
	return nil
}
