package board

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/store"
)

var today = models.NewDate(2025, 3, 20)

func req(id int64, priority models.Priority, status models.Status, submitted string, due string) models.WorkRequest {
	r := models.WorkRequest{
		ID:            id,
		Description:   fmt.Sprintf("request %d", id),
		RequestorName: "A. Lee",
		Priority:      priority,
		Status:        status,
		SubmittedDate: models.MustParseDate(submitted),
	}
	if due != "" {
		r.DueDate = models.DatePtr(models.MustParseDate(due))
	}
	return r
}

func ids(requests []models.WorkRequest) []int64 {
	out := make([]int64, 0, len(requests))
	for _, r := range requests {
		out = append(out, r.ID)
	}
	return out
}

func TestHotlistOrdering(t *testing.T) {
	requests := []models.WorkRequest{
		req(1, models.PriorityHigh, models.StatusNewRequest, "2025-03-01", ""),
		req(2, models.PriorityCritical, models.StatusCompleted, "2025-03-01", ""),
		req(3, models.PriorityHigh, models.StatusInProgress, "2025-03-05", "2025-04-01"),
		req(4, models.PriorityHigh, models.StatusInProgress, "2025-03-02", "2025-03-25"),
		req(5, models.PriorityLow, models.StatusInProgress, "2025-01-01", "2025-01-02"),
		req(6, models.PriorityHigh, models.StatusInProgress, "2025-03-01", ""),
		req(7, models.PriorityHigh, models.StatusInProgress, "2025-02-01", ""),
		req(8, models.PriorityHigh, models.StatusOnHold, "2025-01-01", "2025-01-05"),
	}

	got := Hotlist(requests, 0)
	assert.Equal(t, []int64{4, 3, 7, 6, 1, 8, 5}, ids(got))
}

func TestHotlistLimitAndExclusion(t *testing.T) {
	var requests []models.WorkRequest
	for i := 1; i <= 30; i++ {
		status := models.StatusNewRequest
		if i%5 == 0 {
			status = models.StatusCompleted
		}
		requests = append(requests, req(int64(i), models.PriorityMedium, status, "2025-03-01", ""))
	}

	got := Hotlist(requests, DefaultHotlistLimit)
	require.Len(t, got, 20)
	for i, r := range got {
		assert.NotEqual(t, models.StatusCompleted, r.Status)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Priority.Rank(), r.Priority.Rank())
		}
	}
	assert.Len(t, Hotlist(requests, 3), 3)
}

func TestBucketForBoundaries(t *testing.T) {
	cases := []struct {
		age  int
		want Column
	}{
		{0, ColumnNewRecent},
		{7, ColumnNewRecent},
		{8, ColumnNewAging},
		{14, ColumnNewAging},
		{15, ColumnNewStale},
		{90, ColumnNewStale},
	}
	for _, tc := range cases {
		r := models.WorkRequest{Status: models.StatusNewRequest, SubmittedDate: today.AddDays(-tc.age)}
		assert.Equal(t, tc.want, BucketFor(r, today), "age %d", tc.age)
	}

	held := models.WorkRequest{Status: models.StatusOnHold, SubmittedDate: today.AddDays(-30)}
	assert.Equal(t, ColumnOnHold, BucketFor(held, today))
}

func TestRealStatusForAndParseColumn(t *testing.T) {
	for _, c := range []Column{ColumnNewRecent, ColumnNewAging, ColumnNewStale} {
		assert.Equal(t, models.StatusNewRequest, RealStatusFor(c))
	}
	assert.Equal(t, models.StatusInProgress, RealStatusFor(ColumnInProgress))
	assert.Equal(t, models.StatusCompleted, RealStatusFor(ColumnCompleted))

	c, err := ParseColumn("New (8-14 Days)")
	require.NoError(t, err)
	assert.Equal(t, ColumnNewAging, c)
	c, err = ParseColumn("on_hold")
	require.NoError(t, err)
	assert.Equal(t, ColumnOnHold, c)
	c, err = ParseColumn("in progress")
	require.NoError(t, err)
	assert.Equal(t, ColumnInProgress, c)
	c, err = ParseColumn("New Request")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNewRequest, RealStatusFor(c))
	_, err = ParseColumn("Archived")
	assert.Error(t, err)
}

func TestKanbanPartitionsRequests(t *testing.T) {
	requests := []models.WorkRequest{
		req(1, models.PriorityLow, models.StatusNewRequest, "2025-03-19", ""),
		req(2, models.PriorityCritical, models.StatusNewRequest, "2025-03-13", ""),
		req(3, models.PriorityHigh, models.StatusNewRequest, "2025-03-06", ""),
		req(4, models.PriorityHigh, models.StatusNewRequest, "2025-03-05", ""),
		req(5, models.PriorityLow, models.StatusInProgress, "2025-03-18", ""),
		req(6, models.PriorityHigh, models.StatusInProgress, "2025-03-01", ""),
		req(7, models.PriorityMedium, models.StatusCompleted, "2025-03-01", ""),
		req(8, models.PriorityCritical, models.StatusNewRequest, "2025-03-18", ""),
	}

	columns := Kanban(requests, today, SortByPriority)
	require.Len(t, columns, 6)
	assert.Equal(t, Columns[0], columns[0].Column)
	assert.Equal(t, []int64{8, 2, 1}, ids(columns[0].Requests))
	assert.Equal(t, []int64{3}, ids(columns[1].Requests))
	assert.Equal(t, []int64{4}, ids(columns[2].Requests))
	assert.Equal(t, []int64{6, 5}, ids(columns[3].Requests))
	assert.Empty(t, columns[4].Requests)
	assert.Equal(t, []int64{7}, ids(columns[5].Requests))

	total := 0
	for _, c := range columns {
		total += c.Count
	}
	assert.Equal(t, len(requests), total)

	recent := Kanban(requests, today, SortByRecent)
	assert.Equal(t, []int64{1, 8, 2}, ids(recent[0].Requests))
	assert.Equal(t, []int64{5, 6}, ids(recent[3].Requests))
}

func TestFilterListIsConjunctive(t *testing.T) {
	school := int64(10)
	other := int64(11)
	requests := []models.WorkRequest{
		req(1, models.PriorityHigh, models.StatusNewRequest, "2025-03-01", ""),
		req(2, models.PriorityHigh, models.StatusInProgress, "2025-03-01", ""),
		req(3, models.PriorityLow, models.StatusNewRequest, "2025-03-01", ""),
	}
	requests[0].SchoolID = &school
	requests[1].SchoolID = &school
	requests[2].SchoolID = &other

	assert.Equal(t, []int64{1, 2, 3}, ids(FilterList(requests, models.WorkRequestFilter{})))

	status := models.StatusNewRequest
	priority := models.PriorityHigh
	got := FilterList(requests, models.WorkRequestFilter{Status: &status, Priority: &priority, SchoolID: &school})
	assert.Equal(t, []int64{1}, ids(got))

	got = FilterList(requests, models.WorkRequestFilter{SchoolID: &other})
	assert.Equal(t, []int64{3}, ids(got))
}

func TestListViewSorting(t *testing.T) {
	p1, p2 := int64(1), int64(2)
	s1 := int64(10)
	dir := NewDirectory(
		[]models.Program{{ID: 1, Name: "Zoology"}, {ID: 2, Name: "Arts"}},
		[]models.School{{ID: 10, Name: "Lincoln", ProgramID: 1}},
	)
	requests := []models.WorkRequest{
		req(1, models.PriorityHigh, models.StatusNewRequest, "2025-03-02", "2025-03-09"),
		req(2, models.PriorityMedium, models.StatusInProgress, "2025-03-05", ""),
		req(3, models.PriorityCritical, models.StatusOnHold, "2025-03-01", "2025-03-04"),
	}
	requests[0].ProgramID = &p1
	requests[1].ProgramID = &p2
	requests[0].SchoolID = &s1

	got, err := ListView(requests, dir, models.WorkRequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3}, ids(got))

	got, err = ListView(requests, dir, models.WorkRequestFilter{SortBy: SortKeyProgramName, SortOrder: models.SortAscending})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, ids(got))

	got, err = ListView(requests, dir, models.WorkRequestFilter{SortBy: SortKeySchoolName, SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(got))

	got, err = ListView(requests, dir, models.WorkRequestFilter{SortBy: SortKeyDueDate, SortOrder: models.SortAscending})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, ids(got))

	got, err = ListView(requests, dir, models.WorkRequestFilter{SortBy: SortKeyPriority, SortOrder: models.SortAscending})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids(got))

	_, err = ListView(requests, dir, models.WorkRequestFilter{SortBy: "color"})
	assert.Error(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(requests))
}

func testSnapshot() *store.Snapshot {
	p1, p2 := int64(1), int64(2)
	s10 := int64(10)
	room := "Room 4B"
	requests := []models.WorkRequest{
		req(1, models.PriorityHigh, models.StatusNewRequest, "2025-03-02", ""),
		req(2, models.PriorityCritical, models.StatusOnHold, "2025-03-03", ""),
		req(3, models.PriorityLow, models.StatusCompleted, "2025-03-03", ""),
		req(4, models.PriorityHigh, models.StatusInProgress, "2025-03-04", "2025-03-10"),
		req(5, models.PriorityMedium, models.StatusNewRequest, "2025-03-05", ""),
		req(6, models.PriorityLow, models.StatusNewRequest, "2025-03-05", ""),
	}
	for i := range requests {
		requests[i].ProgramID = &p1
	}
	requests[5].ProgramID = &p2
	requests[0].SchoolID = &s10
	requests[2].SchoolID = &s10
	requests[0].Classroom = &room
	requests[1].Description = "Broken sink in cafeteria"

	return &store.Snapshot{
		Programs: []models.Program{{ID: 1, Name: "Assistive Technology"}, {ID: 2, Name: "Facilities"}},
		Schools: []models.School{
			{ID: 10, Name: "Lincoln Elementary", ProgramID: 1},
			{ID: 11, Name: "Adams Middle", ProgramID: 1},
			{ID: 12, Name: "Lincoln High", ProgramID: 2},
		},
		Classrooms: []models.Classroom{
			{ID: 100, Name: "Room 1", SchoolID: 10},
			{ID: 101, Name: "Room 2", SchoolID: 11},
			{ID: 102, Name: "Lab", SchoolID: 12},
		},
		WorkRequests: requests,
	}
}

func TestProgramSummaries(t *testing.T) {
	summaries := ProgramSummaries(testSnapshot(), 3)
	require.Len(t, summaries, 2)

	at := summaries[0]
	assert.Equal(t, "assistive-technology", at.Slug)
	assert.Equal(t, 2, at.SchoolCount)
	assert.Equal(t, 2, at.ClassroomCount)
	assert.Equal(t, 4, at.OpenCount)
	assert.Equal(t, 1, at.OnHoldCount)
	assert.Equal(t, []int64{2, 4, 1}, ids(at.TopRequests))

	fac := summaries[1]
	assert.Equal(t, 1, fac.SchoolCount)
	assert.Equal(t, 1, fac.OpenCount)
	assert.Equal(t, 0, fac.OnHoldCount)
}

func TestScopeToProgram(t *testing.T) {
	snap := testSnapshot()
	all, ok := ScopeToProgram(snap, "")
	assert.True(t, ok)
	assert.Len(t, all, 6)

	scoped, ok := ScopeToProgram(snap, "facilities")
	assert.True(t, ok)
	assert.Equal(t, []int64{6}, ids(scoped))

	missing, ok := ScopeToProgram(snap, "unknown-program")
	assert.False(t, ok)
	assert.Empty(t, missing)
}

func TestSearch(t *testing.T) {
	snap := testSnapshot()

	res := Search(snap, "  ")
	assert.Empty(t, res.WorkRequests)
	assert.Empty(t, res.Schools)

	res = Search(snap, "SINK")
	assert.Equal(t, []int64{2}, ids(res.WorkRequests))

	res = Search(snap, "4b")
	assert.Equal(t, []int64{1}, ids(res.WorkRequests))

	res = Search(snap, "lincoln")
	assert.Len(t, res.Schools, 2)

	res = Search(snap, "a. lee")
	assert.Len(t, res.WorkRequests, SearchLimit)
}

func TestCalendar(t *testing.T) {
	snap := testSnapshot()
	cal := Calendar(snap.WorkRequests, 2025, time.March)
	assert.Equal(t, 31, cal.DaysInMonth)
	assert.Equal(t, int(time.Saturday), cal.FirstWeekday)
	require.Len(t, cal.Days, 31)
	assert.Equal(t, []int64{2, 3}, ids(cal.Days[2].Requests))
	assert.Empty(t, cal.Days[0].Requests)

	feb := Calendar(snap.WorkRequests, 2024, time.February)
	assert.Equal(t, 29, feb.DaysInMonth)
}

func TestBuildSchoolProfile(t *testing.T) {
	snap := testSnapshot()
	profile, ok := BuildSchoolProfile(snap, 10)
	require.True(t, ok)
	require.NotNil(t, profile.Program)
	assert.Equal(t, "Assistive Technology", profile.Program.Name)
	assert.Len(t, profile.Classrooms, 1)
	assert.Equal(t, []int64{1}, ids(profile.OpenRequests))
	assert.Equal(t, []int64{3}, ids(profile.CompletedRequests))

	_, ok = BuildSchoolProfile(snap, 999)
	assert.False(t, ok)
}
