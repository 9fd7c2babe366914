package models

import "errors"

var (
	ErrNameRequired = errors.New("name is required")
	ErrDateRequired = errors.New("date is required")
	ErrNoItems      = errors.New("at least one itinerary item with an activity is required")
	ErrNegativeCost = errors.New("cost must not be negative")
	ErrNegativeAge  = errors.New("age must not be negative")
	ErrUnknownValue = errors.New("unknown enum value")
)
