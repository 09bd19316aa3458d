package ui

import "time"

// Timing constants.
const (
	// DefaultUIInterval is how often the model re-reads the store. Store
	// changes made by background operations show up within one interval.
	DefaultUIInterval = 200 * time.Millisecond
)
