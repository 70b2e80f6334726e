// ABOUTME: Month grid construction for the calendar view
// ABOUTME: Builds the fixed 6x7 Sunday-start matrix of ISO dates
package calendar

import (
	"fmt"
	"time"
)

// GridRows and GridCols fix the visual layout: six rows of seven cells, week
// starting on Sunday. Months needing only five rows leave the sixth empty.
const (
	GridRows = 6
	GridCols = 7
)

// MonthGrid returns the 6x7 matrix for a month. Cells hold "YYYY-MM-DD" or ""
// for the leading and trailing placeholders. Cell (r,c) at linear index
// i = r*7+c maps to day i-startWeekday+1.
func MonthGrid(year int, month time.Month) [][]string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	startWeekday := int(first.Weekday()) // 0=Sunday..6=Saturday
	daysInMonth := first.AddDate(0, 1, -1).Day()

	grid := make([][]string, GridRows)
	for r := 0; r < GridRows; r++ {
		row := make([]string, GridCols)
		for c := 0; c < GridCols; c++ {
			i := r*GridCols + c
			day := i - startWeekday + 1
			if i < startWeekday || day > daysInMonth {
				continue
			}
			row[c] = fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		}
		grid[r] = row
	}
	return grid
}

// MonthRange returns the first and last day of a month as ISO dates.
func MonthRange(year int, month time.Month) (from, to string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}
