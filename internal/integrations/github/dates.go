package github

import "time"

func dateRange(start, end *time.Time) string {
	from := "?"
	if start != nil {
		from = start.Format("Jan 2006")
	}
	to := "Present"
	if end != nil {
		to = end.Format("Jan 2006")
	}
	return from + " - " + to
}
