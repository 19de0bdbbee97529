package attendance

import "errors"

// Attendance domain errors
var (
	// Duplicate-event guard rejections
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")

	// General errors
	ErrEventNotFound = errors.New("attendance event not found")
	ErrInvalidRange  = errors.New("start must be before end")
)
