package valueobjects

// AutoplayMode represents a user's autoplay preference
type AutoplayMode string

const (
	AutoplayEnabled  AutoplayMode = "enabled"
	AutoplayDisabled AutoplayMode = "disabled"
	AutoplayPartial  AutoplayMode = "partial"
)

// String returns the string representation
func (m AutoplayMode) String() string {
	return string(m)
}

// IsValid checks if the mode is valid
func (m AutoplayMode) IsValid() bool {
	switch m {
	case AutoplayEnabled, AutoplayDisabled, AutoplayPartial:
		return true
	}
	return false
}
