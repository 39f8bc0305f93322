package notifications

import "fmt"

// SadnessMessage reports a sustained count of sad entries. lookbackDays of 0
// means the whole history was counted.
func SadnessMessage(name string, sadCount, lookbackDays int) string {
	window := ""
	if lookbackDays > 0 {
		window = fmt.Sprintf(" in last %d days", lookbackDays)
	}
	return fmt.Sprintf("%s Alert: %s has %d sad entries%s. Please check in.", ProductName, name, sadCount, window)
}

// NightLoginMessage reports frequent logins between midnight and 6 AM.
func NightLoginMessage(name string, logins int) string {
	return fmt.Sprintf("%s Alert: %s is awakening a lot at night (logins %d between 12–6 AM).", ProductName, name, logins)
}

// StreakMessage reports a run of consecutive sad entries.
func StreakMessage(name string, streak int) string {
	return fmt.Sprintf("%s Alert: %s has reported feeling sad for %d consecutive entries. Please check in.", ProductName, name, streak)
}
