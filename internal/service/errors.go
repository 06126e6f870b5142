package service

import "errors"

var (
	// ErrMatchNotFound is returned when no provider knows the match id
	ErrMatchNotFound = errors.New("match not found")
	// ErrNoMatchesSelected is returned when an export names no match ids
	ErrNoMatchesSelected = errors.New("no matches selected")
	// ErrNoMatchesFound is returned when none of the selected match ids resolve
	ErrNoMatchesFound = errors.New("no matches found")
)
