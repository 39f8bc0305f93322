package mood

import "context"

// LongestSadStreak returns the longest run of consecutive sad records in a
// user's chronological history.
func (e *Engine) LongestSadStreak(ctx context.Context, userID string) (int, error) {
	if IsAll(userID) {
		return 0, ErrInvalidScope
	}
	recs, err := e.records(ctx, "sad streak", RecordQuery{UserID: userID, Order: Ascending})
	if err != nil {
		return 0, err
	}
	return longestSadRun(recs), nil
}

func longestSadRun(recs []Record) int {
	current, longest := 0, 0
	for _, r := range recs {
		if !IsSadForStreak(r) {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	return longest
}
