package services

import "errors"

// Report service errors
var (
	ErrNoReport = errors.New("no report to export")
)
