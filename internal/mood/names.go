package mood

import "strings"

// UnknownUser is the last-resort display name.
const UnknownUser = "Unknown User"

// nameAccessors are tried in order; the first non-empty result wins.
var nameAccessors = []func(Names) string{
	func(n Names) string { return n.UserName },
	func(n Names) string { return n.DisplayName },
	func(n Names) string { return n.Name },
	func(n Names) string { return n.FullName },
	func(n Names) string { return strings.TrimSpace(n.FirstName + " " + n.LastName) },
	func(n Names) string { return n.Email },
}

// DisplayName resolves a human-readable name, falling back to userID and
// then UnknownUser.
func DisplayName(n Names, userID string) string {
	if s := n.Resolve(); s != "" {
		return s
	}
	if userID != "" {
		return userID
	}
	return UnknownUser
}

// Resolve returns the first non-empty name field, or "" when none is set.
func (n Names) Resolve() string {
	for _, get := range nameAccessors {
		if s := strings.TrimSpace(get(n)); s != "" {
			return s
		}
	}
	return ""
}

// latestName walks records newest first and returns the first name that
// resolves, falling back to userID.
func latestName(recs []Record, userID string) string {
	for _, r := range recs {
		if s := r.Names.Resolve(); s != "" {
			return s
		}
	}
	return DisplayName(Names{}, userID)
}
