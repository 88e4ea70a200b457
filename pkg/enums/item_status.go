package enums

import "fmt"

// ItemStatus tracks the lifecycle of a report. The only legal transition is
// active to claimed; claimed items never reopen.
type ItemStatus string

const (
	ItemStatusActive  ItemStatus = "active"
	ItemStatusClaimed ItemStatus = "claimed"
)

var validItemStatuses = []ItemStatus{
	ItemStatusActive,
	ItemStatusClaimed,
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ItemStatus.
func (s ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseItemStatus converts the raw string to ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
