package domain

import "sort"

// HistoricalWindow holds daily snapshots keyed by date string
// (YYYY-MM-DD) across a trailing window. The map is sparse: days with
// no data are simply absent, never zero-filled.
type HistoricalWindow map[string]DailySnapshot

// Dates returns the dates with data in chronological order.
func (w HistoricalWindow) Dates() []string {
	dates := make([]string, 0, len(w))
	for d := range w {
		dates = append(dates, d)
	}

	sort.Strings(dates)

	return dates
}

// Sufficient reports whether the window has enough history for trend
// detection. Anything less returns empty results downstream, not an
// error; absence of history is expected on cold start.
func (w HistoricalWindow) Sufficient() bool {
	return len(w) >= 2
}
