package board

import (
	"time"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

// CalendarDay lists the requests submitted on one day.
type CalendarDay struct {
	Date     models.Date          `json:"date"`
	Requests []models.WorkRequest `json:"requests"`
}

// CalendarMonth is a month grid of submitted requests.
type CalendarMonth struct {
	Year         int           `json:"year"`
	Month        int           `json:"month"`
	FirstWeekday int           `json:"firstWeekday"`
	DaysInMonth  int           `json:"daysInMonth"`
	Days         []CalendarDay `json:"days"`
}

// Calendar groups requests by submitted date for every day of the month.
func Calendar(requests []models.WorkRequest, year int, month time.Month) CalendarMonth {
	first := models.NewDate(year, month, 1)
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	byDay := make(map[string][]models.WorkRequest)
	for _, r := range requests {
		key := r.SubmittedDate.String()
		byDay[key] = append(byDay[key], r)
	}

	cal := CalendarMonth{
		Year:         year,
		Month:        int(month),
		FirstWeekday: int(first.Time().Weekday()),
		DaysInMonth:  days,
		Days:         make([]CalendarDay, 0, days),
	}
	for d := 1; d <= days; d++ {
		date := models.NewDate(year, month, d)
		items := byDay[date.String()]
		if items == nil {
			items = []models.WorkRequest{}
		}
		cal.Days = append(cal.Days, CalendarDay{Date: date, Requests: items})
	}
	return cal
}
