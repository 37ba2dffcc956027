package repository

import "time"

// parseTime parses an RFC3339 column value, returning the zero time when the
// stored value is malformed.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
