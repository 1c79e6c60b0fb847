package interview

import "errors"

var (
	ErrInterviewNotFound = errors.New("interview record not found")
	ErrInterviewCorrupt  = errors.New("interview records could not be parsed")
)
