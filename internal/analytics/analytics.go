package analytics

import "github.com/noah-isme/program-workboard-api/internal/models"

// StatusShare is one slice of the open-status distribution.
type StatusShare struct {
	Status     models.Status `json:"status"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"`
}

// PriorityBar is one bar of the open-priority distribution. Height is relative to the largest bar.
type PriorityBar struct {
	Priority models.Priority `json:"priority"`
	Count    int             `json:"count"`
	Height   float64         `json:"height"`
}

// Summary bundles the dashboard KPIs.
type Summary struct {
	TotalOpen            int           `json:"totalOpen"`
	StatusDistribution   []StatusShare `json:"statusDistribution"`
	PriorityDistribution []PriorityBar `json:"priorityDistribution"`
	CompletedLast7Days   int           `json:"completedLast7Days"`
	CompletedLast30Days  int           `json:"completedLast30Days"`
	CompletedAllTime     int           `json:"completedAllTime"`
}

var openStatuses = []models.Status{models.StatusNewRequest, models.StatusInProgress, models.StatusOnHold}

// StatusDistribution counts open requests per open status as counts and percent of open total.
func StatusDistribution(requests []models.WorkRequest) []StatusShare {
	counts := make(map[models.Status]int, len(openStatuses))
	total := 0
	for _, r := range requests {
		if !r.IsOpen() {
			continue
		}
		counts[r.Status]++
		total++
	}
	shares := make([]StatusShare, 0, len(openStatuses))
	for _, status := range openStatuses {
		share := StatusShare{Status: status, Count: counts[status]}
		if total > 0 {
			share.Percentage = float64(share.Count) / float64(total) * 100
		}
		shares = append(shares, share)
	}
	return shares
}

// PriorityDistribution counts open requests per priority, Critical first.
func PriorityDistribution(requests []models.WorkRequest) []PriorityBar {
	counts := make(map[models.Priority]int, len(models.Priorities))
	max := 0
	for _, r := range requests {
		if !r.IsOpen() {
			continue
		}
		counts[r.Priority]++
		if counts[r.Priority] > max {
			max = counts[r.Priority]
		}
	}
	bars := make([]PriorityBar, 0, len(models.Priorities))
	for _, p := range models.Priorities {
		bar := PriorityBar{Priority: p, Count: counts[p]}
		if max > 0 {
			bar.Height = float64(bar.Count) / float64(max) * 100
		}
		bars = append(bars, bar)
	}
	return bars
}

// CompletedWithin counts completed requests whose reference date (due date, else submitted
// date) falls in [today-days, today]. days <= 0 counts every completed request.
func CompletedWithin(requests []models.WorkRequest, today models.Date, days int) int {
	from := today.AddDays(-days)
	count := 0
	for _, r := range requests {
		if r.Status != models.StatusCompleted {
			continue
		}
		if days <= 0 {
			count++
			continue
		}
		ref := r.SubmittedDate
		if r.DueDate != nil && !r.DueDate.IsZero() {
			ref = *r.DueDate
		}
		if !ref.Before(from) && !ref.After(today) {
			count++
		}
	}
	return count
}

// Summarize computes every KPI in one call.
func Summarize(requests []models.WorkRequest, today models.Date) Summary {
	total := 0
	for _, r := range requests {
		if r.IsOpen() {
			total++
		}
	}
	return Summary{
		TotalOpen:            total,
		StatusDistribution:   StatusDistribution(requests),
		PriorityDistribution: PriorityDistribution(requests),
		CompletedLast7Days:   CompletedWithin(requests, today, 7),
		CompletedLast30Days:  CompletedWithin(requests, today, 30),
		CompletedAllTime:     CompletedWithin(requests, today, 0),
	}
}
