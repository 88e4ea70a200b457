package enums

import "fmt"

// ItemType distinguishes a report about something lost from something found.
type ItemType string

const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

var validItemTypes = []ItemType{
	ItemTypeLost,
	ItemTypeFound,
}

// String implements fmt.Stringer.
func (i ItemType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemType.
func (i ItemType) IsValid() bool {
	for _, candidate := range validItemTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// Opposite returns the counterpart type used when scanning for matches.
func (i ItemType) Opposite() ItemType {
	if i == ItemTypeLost {
		return ItemTypeFound
	}
	return ItemTypeLost
}

// ParseItemType converts the raw string to ItemType.
func ParseItemType(value string) (ItemType, error) {
	for _, candidate := range validItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item type %q", value)
}
