package logic

import "time"

// AppliedStore remembers which openings the user applied to during this session
type AppliedStore interface {
	MarkApplied(openingID int64, at time.Time)
	AppliedAt(openingID int64) (time.Time, bool)
	Count() int
}

// DefaultAppliedCapacity bounds how many applications are remembered
const DefaultAppliedCapacity = 1024
