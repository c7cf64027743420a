// Package daterange expands inclusive calendar date ranges into the per-day
// keys the feed file names are built from.
package daterange

import (
	"fmt"
	"time"
)

// Layout is the date key format used across all feeds.
const Layout = "2006-01-02"

// Days expands an inclusive [start, end] range of ISO YYYY-MM-DD dates into
// ascending per-day keys. start == end yields one element; start > end is a
// caller contract violation and yields an empty slice.
func Days(start, end string) ([]string, error) {
	from, err := time.Parse(Layout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	to, err := time.Parse(Layout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}

	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(Layout))
	}
	return days, nil
}
