// Package pipeline drives the import: download registry records into JSON
// files, then load those files into the database.
package pipeline

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Window is a half-open [From, To) range of last-edited dates.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) String() string {
	return fmt.Sprintf("%s..%s", w.From.Format(dateLayout), w.To.Format(dateLayout))
}

// Windows cuts [start, end) into windows of days days. The last window is
// shortened to end.
func Windows(start, end time.Time, days int) []Window {
	if days <= 0 {
		days = 1
	}
	var out []Window
	for from := start; from.Before(end); {
		to := from.AddDate(0, 0, days)
		if to.After(end) {
			to = end
		}
		out = append(out, Window{From: from, To: to})
		from = to
	}
	return out
}

// ParseRange reads the download range; an empty end means today.
func ParseRange(start, end string, now time.Time) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	to := now.UTC().Truncate(24 * time.Hour)
	if end != "" {
		if to, err = time.Parse(dateLayout, end); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
		}
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("start %s is not before end %s", start, to.Format(dateLayout))
	}
	return from, to, nil
}
