package event

import "strconv"

// Priority ranks listeners of the same event type. Higher values run first.
// Any int8 value is accepted; the named levels cover the common cases.
type Priority int8

const (
	PriorityLowest   Priority = 0
	PriorityLow      Priority = 25
	PriorityNormal   Priority = 50
	PriorityHigh     Priority = 75
	PriorityHighest  Priority = 100
	PriorityCritical Priority = 125 // use sparingly

	PriorityDefault = PriorityNormal
)

// Priorities returns all named levels, highest first.
func Priorities() []Priority {
	return []Priority{
		PriorityCritical,
		PriorityHighest,
		PriorityHigh,
		PriorityNormal,
		PriorityLow,
		PriorityLowest,
	}
}

// Valid reports whether p lies within the named range (Lowest..Critical).
func (p Priority) Valid() bool {
	return p >= PriorityLowest && p <= PriorityCritical
}

func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "lowest"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityHighest:
		return "highest"
	case PriorityCritical:
		return "critical"
	}
	return "priority(" + strconv.Itoa(int(p)) + ")"
}
